package testutil

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

var (
	User1 = entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
		Role: entity.UserRole,
	}

	User2 = entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
		Role: entity.UserRole,
	}

	User3 = entity.User{
		Base: entity.Base{ID: "user3"},
		Name: "user3",
		Role: entity.UserRole,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
}

func InsertUsers(ctx context.Context) {
	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}
