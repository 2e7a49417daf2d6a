package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a unit tree with staff and logins from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			seed, err := parseSeed(fh)
			if err != nil {
				return err
			}
			plan, err := seed.plan()
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := applySeed(cmd.Context(), repository.NewRepository(e.db), plan, bcrypt.DefaultCost); err != nil {
				return err
			}
			e.logger.Info("seed applied",
				zap.Int("units", len(plan.Units)),
				zap.Int("staff", len(plan.Staff)),
				zap.Int("users", len(plan.Users)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "seed file")
	return cmd
}

// applySeed inserts the plan in one transaction
func applySeed(ctx context.Context, repo *repository.Repository, plan *seedPlan, cost int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range plan.Units {
			if err := tx.Unit.Create(ctx, &plan.Units[i]); err != nil {
				return fmt.Errorf("create unit %q: %w", plan.Units[i].Name, err)
			}
		}
		for i := range plan.Staff {
			if err := tx.Staff.Create(ctx, &plan.Staff[i]); err != nil {
				return fmt.Errorf("create staff %q: %w", plan.Staff[i].Name, err)
			}
		}
		for i := range plan.Users {
			u := &plan.Users[i]
			hash, err := service.HashPassword(plan.Passwords[u.Username], cost)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
			if err := tx.User.Create(ctx, u); err != nil {
				return fmt.Errorf("create user %q: %w", u.Username, err)
			}
		}
		return nil
	})
}
