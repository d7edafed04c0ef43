package application

// RegisterCommand 注册命令
type RegisterCommand struct {
	FullName string
	Email    string
	Phone    string
	Location string
	Password string
	Role     string
}

// LoginCommand 登录命令
type LoginCommand struct {
	EmailOrPhone string
	Password     string
}

// UpdateProfileCommand 资料更新命令，空字段不修改
type UpdateProfileCommand struct {
	MerchantID string
	FullName   string
	Phone      string
	Location   string
}
