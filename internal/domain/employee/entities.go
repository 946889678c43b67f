package employee

type Role string

const (
	RoleEmployee     Role = "EMPLOYEE"
	RoleManager      Role = "MANAGER"
	RolePlantManager Role = "PLANT_MANAGER"
	RoleCEO          Role = "CEO"
	RoleHRManager    Role = "HR_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

// Employee is owned by the HR directory; this service only reads it.
type Employee struct {
	ID             uint64  `gorm:"primaryKey;column:id" json:"id"`
	FirstName      string  `gorm:"size:100;column:first_name" json:"first_name"`
	LastName       string  `gorm:"size:100;column:last_name" json:"last_name"`
	Email          string  `gorm:"size:191;column:email" json:"email"`
	Role           Role    `gorm:"size:32;column:role" json:"role"`
	ManagerID      *uint64 `gorm:"column:manager_id" json:"manager_id,omitempty"`
	PlantManagerID *uint64 `gorm:"column:plant_manager_id" json:"plant_manager_id,omitempty"`
	CEOID          *uint64 `gorm:"column:ceo_id" json:"ceo_id,omitempty"`
	Plant          string  `gorm:"size:64;column:plant_connection;index" json:"plant"`
	// DeviceID is the clock-in device the employee badges on.
	DeviceID *uint64 `gorm:"column:pointeuse_id;index" json:"device_id,omitempty"`
}

func (Employee) TableName() string { return "users" }

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
