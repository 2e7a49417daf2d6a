package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

func newCreateUserCmd() *cobra.Command {
	var u seedUser
	var unitID string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login attached to an existing unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if u.Username == "" || u.Password == "" || unitID == "" {
				return fmt.Errorf("--username, --password and --unit are required")
			}
			if !policy.IsRole(u.Role) {
				return fmt.Errorf("unknown role %q", u.Role)
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()
			repo := repository.NewRepository(e.db)

			if _, err := repo.Unit.GetByID(ctx, unitID); err != nil {
				return fmt.Errorf("unit %s: %w", unitID, err)
			}
			if _, err := repo.User.GetByUsername(ctx, u.Username); err == nil {
				return fmt.Errorf("username %q is taken", u.Username)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			hash, err := service.HashPassword(u.Password, bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			name := u.Name
			if name == "" {
				name = u.Username
			}
			user := &model.User{
				Username:     u.Username,
				Name:         name,
				Email:        u.Email,
				PasswordHash: hash,
				Role:         u.Role,
				UnitID:       unitID,
				IsActive:     true,
			}
			if err := repo.User.Create(ctx, user); err != nil {
				return err
			}
			e.logger.Info("user created", zap.String("user_id", user.UserID), zap.String("username", user.Username))
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Username, "username", "", "login name")
	cmd.Flags().StringVar(&u.Name, "name", "", "display name")
	cmd.Flags().StringVar(&u.Email, "email", "", "email")
	cmd.Flags().StringVar(&u.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&u.Role, "role", policy.RoleAdmin, "admin, supervisor or member")
	cmd.Flags().StringVar(&unitID, "unit", "", "home unit id")
	return cmd
}
