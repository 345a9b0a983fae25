package model

type UserRole string

const (
	Employee UserRole = "employee"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username  string   `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string   `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName string   `gorm:"size:150" json:"firstName"`
	LastName  string   `gorm:"size:150" json:"lastName"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	Role      UserRole `gorm:"size:20;not null" json:"role"`
	IsActive  bool     `json:"isActive"`
	Profile   *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

// Profile is the companion record created together with every user.
// swagger:model Profile
type Profile struct {
	BaseModel
	UserID       uint    `gorm:"uniqueIndex;not null" json:"userId"`
	ProfileImage string  `gorm:"size:255" json:"profileImage"`
	PhoneNumber  string  `gorm:"size:10" json:"phoneNumber"`
	Gender       string  `gorm:"size:10" json:"gender"`
	Address      string  `gorm:"type:text" json:"address"`
	EmpID        *string `gorm:"size:50;uniqueIndex" json:"empId"`
	UserCode     string  `gorm:"size:100;uniqueIndex;not null" json:"userCode"`
}

func (Profile) TableName() string {
	return "profiles"
}
