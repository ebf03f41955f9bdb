package models

// Account 对应 users 表：user_name 为主键，password 存 bcrypt 哈希
type Account struct {
	UserName string `gorm:"column:user_name;primaryKey" json:"userName"`
	Password string `gorm:"column:password;type:text" json:"-"`
}

func (Account) TableName() string {
	return AccountTable
}

const AccountTable = "users"
