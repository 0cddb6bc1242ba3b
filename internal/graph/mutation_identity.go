package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/middleware/auth"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/service"
)

func sessionPayload(s *service.Session) map[string]interface{} {
	return map[string]interface{}{
		"user":             s.User,
		"token":            s.AccessToken,
		"refreshToken":     s.RefreshToken,
		"expiresAt":        s.AccessExp,
		"refreshExpiresAt": s.RefreshExp,
	}
}

func registerInput(a args) (service.RegisterInput, error) {
	birth, err := a.optDate("birthDate")
	if err != nil {
		return service.RegisterInput{}, err
	}
	return service.RegisterInput{
		FirstName: a.str("firstName"),
		LastName:  a.str("lastName"),
		Email:     a.str("email"),
		Password:  a.str("password"),
		Phone:     a.str("phone"),
		BirthDate: birth,
	}, nil
}

func (r *Resolver) identityMutations(t *types) graphql.Fields {
	userPayload := func(name string) *graphql.Object { return payload(name, "user", t.user) }
	profileArgs := func(required bool) graphql.FieldConfigArgument {
		str := optArg(graphql.String)
		if required {
			str = reqArg(graphql.String)
		}
		return graphql.FieldConfigArgument{
			"firstName": str,
			"lastName":  str,
			"email":     str,
			"password":  str,
			"phone":     optArg(graphql.String),
			"birthDate": optArg(graphql.String),
		}
	}

	createUserArgs := profileArgs(true)
	for _, flag := range []string{"isAdmin", "isStaff", "isCustomer"} {
		createUserArgs[flag] = optArg(graphql.Boolean)
	}

	updateUserArgs := profileArgs(false)
	delete(updateUserArgs, "password")
	updateUserArgs["id"] = idArg()
	for _, flag := range []string{"isActive", "isAdmin", "isStaff", "isCustomer"} {
		updateUserArgs[flag] = optArg(graphql.Boolean)
	}

	return graphql.Fields{
		"register": r.op("register", userPayload("RegisterPayload"), profileArgs(true), func(ctx context.Context, a args) (interface{}, error) {
			in, err := registerInput(a)
			if err != nil {
				return nil, err
			}
			u, err := r.Identity.Register(ctx, in)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"user": u}, nil
		}),

		"signIn": r.op("signIn", t.auth, graphql.FieldConfigArgument{
			"email":    reqArg(graphql.String),
			"password": reqArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			sess, err := r.Identity.SignIn(ctx, a.str("email"), a.str("password"))
			if err != nil {
				return nil, err
			}
			auth.SessionFrom(ctx).Issue(sess.AccessToken, sess.AccessExp, sess.RefreshToken, sess.RefreshExp)
			return sessionPayload(sess), nil
		}),

		"refreshToken": r.op("refreshToken", t.auth, graphql.FieldConfigArgument{
			"refreshToken": optArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			token := a.str("refreshToken")
			if token == "" {
				token = auth.SessionFrom(ctx).RefreshToken()
			}
			if token == "" {
				return nil, fmt.Errorf("refresh token is missing: %w", apperr.ErrNotAuthenticated)
			}
			sess, err := r.Identity.Refresh(ctx, token)
			if err != nil {
				return nil, err
			}
			auth.SessionFrom(ctx).Issue(sess.AccessToken, sess.AccessExp, sess.RefreshToken, sess.RefreshExp)
			return sessionPayload(sess), nil
		}),

		"signOut": r.op("signOut", t.success, graphql.FieldConfigArgument{
			"refreshToken": optArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			token := a.str("refreshToken")
			if token == "" {
				token = auth.SessionFrom(ctx).RefreshToken()
			}
			if err := r.Identity.SignOut(ctx, token); err != nil {
				return nil, err
			}
			auth.SessionFrom(ctx).Clear()
			return success(), nil
		}),

		"requestPasswordReset": r.op("requestPasswordReset", t.success, graphql.FieldConfigArgument{
			"channel": reqArg(t.resetChannel),
			"email":   optArg(graphql.String),
			"phone":   optArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			err := r.Identity.RequestPasswordReset(ctx, service.PasswordResetRequest{
				Channel: models.ResetChannel(a.str("channel")),
				Email:   a.str("email"),
				Phone:   a.str("phone"),
			})
			if err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"resetPassword": r.op("resetPassword", t.success, graphql.FieldConfigArgument{
			"token":       reqArg(graphql.String),
			"newPassword": reqArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			if err := r.Identity.ResetPassword(ctx, a.str("token"), a.str("newPassword")); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"createUser": r.op("createUser", userPayload("CreateUserPayload"), createUserArgs, func(ctx context.Context, a args) (interface{}, error) {
			in, err := registerInput(a)
			if err != nil {
				return nil, err
			}
			roles, _ := a.roleFlags(models.NoRoles)
			u, err := r.Identity.CreateUser(ctx, in, roles)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"user": u}, nil
		}),

		"updateUser": r.op("updateUser", userPayload("UpdateUserPayload"), updateUserArgs, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			birth, err := a.optDate("birthDate")
			if err != nil {
				return nil, err
			}
			in := service.UpdateUserInput{
				FirstName: a.nonEmptyStr("firstName"),
				LastName:  a.nonEmptyStr("lastName"),
				Email:     a.nonEmptyStr("email"),
				Phone:     a.nonEmptyStr("phone"),
				BirthDate: birth,
				IsActive:  a.optBool("isActive"),
			}
			current, err := r.Identity.GetUser(ctx, id)
			if err != nil {
				return nil, err
			}
			if roles, changed := a.roleFlags(current.Roles); changed {
				in.Roles = &roles
			}
			u, err := r.Identity.UpdateUser(ctx, id, in)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"user": u}, nil
		}),

		"deleteUser": r.op("deleteUser", t.success, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Identity.DeleteUser(ctx, id); err != nil {
				return nil, err
			}
			return success(), nil
		}),
	}
}
