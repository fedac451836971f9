package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/ascensores-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ascensores-api/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL de ascensores-api",
	}
	rootCmd.AddCommand(upCmd(), statusCmd(), listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			m := postgres.NewMigrator(pool)

			if dryRun {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				pending := 0
				for _, st := range statuses {
					if st.AppliedAt == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "- %s_%s\n", st.Version, st.Name)
						pending++
					}
				}
				if pending == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No hay migraciones pendientes.")
				}
				return nil
			}

			n, err := m.Up(cmd.Context(), func(mig postgres.Migration) {
				fmt.Fprintf(cmd.OutOrStdout(), "aplicada %s_%s\n", mig.Version, mig.Name)
			})
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", n)
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "solo lista las pendientes")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Muestra qué migraciones están aplicadas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := postgres.NewMigrator(pool).Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, st := range statuses {
				state := "pendiente"
				if st.AppliedAt != nil {
					state = st.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-40s %s\n", st.Version, st.Name, state)
			}
			return nil
		},
	}
}

// listCmd no toca la base: útil para revisar qué trae el binario.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las migraciones embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := postgres.LoadMigrations()
			if err != nil {
				return err
			}
			for _, mig := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s_%s\n", mig.Version, mig.Name)
			}
			return nil
		},
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}
