package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Noofbiz/mvdata/internal/catalog"
)

var dbURL string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Record split manifests in PostgreSQL and compare against them",
}

var catalogSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the frames of the selected split",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, s *catalog.Store) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			m := catalog.ManifestFor(ds)
			if err := s.SaveSplit(ctx, m); err != nil {
				return err
			}
			logger.Infow("saved split manifest", "root", m.Root, "split", m.Split, "frames", len(m.Frames))
			fmt.Printf("Saved %d %s frames of %s\n", len(m.Frames), m.Split, m.Root)
			return nil
		})
	},
}

var catalogCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Check the selected split against the stored manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(ctx context.Context, s *catalog.Store) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			cur := catalog.ManifestFor(ds)
			stored, err := s.LoadSplit(ctx, cur.Root, cur.Split)
			if err != nil {
				return err
			}
			if diff := stored.Diff(cur); diff != "" {
				return errors.Errorf("%s split of %s changed: %s", cur.Split, cur.Root, diff)
			}
			fmt.Printf("The %s split of %s matches the stored manifest (%d frames)\n", cur.Split, cur.Root, len(cur.Frames))
			return nil
		})
	},
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string (default: from POSTGRES_* env or postgres://localhost:5432/mvdata)")
	catalogCmd.AddCommand(catalogSaveCmd, catalogCompareCmd)
	rootCmd.AddCommand(catalogCmd)
}

// connString resolves the database URL from the flag, then the environment.
func connString() string {
	if dbURL != "" {
		return dbURL
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		user := os.Getenv("POSTGRES_USER")
		pass := os.Getenv("POSTGRES_PASSWORD")
		name := os.Getenv("POSTGRES_DB")
		port := os.Getenv("POSTGRES_PORT")
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
	}
	return "postgres://localhost:5432/mvdata"
}

func withCatalog(ctx context.Context, fn func(context.Context, *catalog.Store) error) error {
	s, err := catalog.New(ctx, connString())
	if err != nil {
		return err
	}
	// ctx may already be cancelled by Ctrl+C; close on a fresh one.
	defer s.Close(context.Background())
	return fn(ctx, s)
}
