package mapper

import (
	"github.com/AlibekovAA/tada/internal/common/dto"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

func UserToDTO(user userdomain.User) dto.User {
	return dto.User{
		ID:        string(user.ID),
		Username:  user.Username,
		Roles:     user.Roles.Strings(),
		CreatedAt: user.CreatedAt,
	}
}

func UsersToDTO(users []userdomain.User) []dto.User {
	result := make([]dto.User, len(users))
	for i, u := range users {
		result[i] = UserToDTO(u)
	}
	return result
}
