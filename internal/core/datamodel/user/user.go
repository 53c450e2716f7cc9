package user

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	Username string `gorm:"column:username;uniqueIndex;not null"`
	Password string `gorm:"column:password;not null"`
	RealName string `gorm:"column:real_name;not null"`
}

func (User) TableName() string { return "users" }

type UserRole struct {
	Username string `gorm:"column:username;primaryKey"`
	Position int    `gorm:"column:position;primaryKey;autoIncrement:false"`
	Role     string `gorm:"column:role;not null"`
}

func (UserRole) TableName() string { return "user_roles" }

type AccessCode struct {
	Username string `gorm:"column:username;primaryKey"`
	Position int    `gorm:"column:position;primaryKey;autoIncrement:false"`
	Code     string `gorm:"column:code;not null"`
}

func (AccessCode) TableName() string { return "access_codes" }

type Menu struct {
	Username string `gorm:"column:username;primaryKey"`
	Position int    `gorm:"column:position;primaryKey;autoIncrement:false"`
	Menu     string `gorm:"column:menu;not null"`
}

func (Menu) TableName() string { return "menus" }
