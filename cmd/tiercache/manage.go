package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/tiercache/disk"
)

func newPurgeCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete everything under the top-level caches directory",
		Long: `Delete every file and directory directly under --root, including
caches that belong to other programs. Without --root this is the user's
cache directory. Requires --yes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to purge without --yes")
			}
			if !disk.PurgeAll(g.diskConfig()) {
				return errors.New("purge finished with failures")
			}
			cmd.Println("purged")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the purge")
	return cmd
}

func newClearCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete this library's records and their folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.openStore()
			if err != nil {
				return err
			}
			if !s.DeleteAll() {
				return errors.New("could not remove " + s.Dir())
			}
			cmd.Printf("removed %s\n", s.Dir())
			return nil
		},
	}
}

func newDuCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "du",
		Short: "Print the on-disk size of this library's records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.openStore()
			if err != nil {
				return err
			}
			cmd.Printf("%s\t%s\n", s.HumanSize(), s.Dir())
			return nil
		},
	}
}
