package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jjn00189/DocuRuleFix/internal/config"
	"github.com/jjn00189/DocuRuleFix/internal/docio"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage backup copies of fixed documents",
}

var backupsListCmd = &cobra.Command{
	Use:   "list <file.docx>",
	Short: "List backups of a document, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := backupsFromConfig()
		list, err := b.List(args[0])
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no backups found")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, p := range list {
			info, err := os.Stat(p)
			if err != nil {
				continue
			}
			fmt.Fprintf(tw, "%s\t%d bytes\t%s\n", p, info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <file.docx> [backup-path]",
	Short: "Restore a document from a backup (latest when not specified)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := backupsFromConfig()
		target := args[0]
		var backupPath string
		if len(args) == 2 {
			backupPath = args[1]
		} else {
			list, err := b.List(target)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no backups found for %s", target)
			}
			backupPath = list[0]
		}
		if err := b.Restore(target, backupPath); err != nil {
			return err
		}
		fmt.Printf("restored %s from %s\n", target, backupPath)
		return nil
	},
}

var backupsPruneKeep int

var backupsPruneCmd = &cobra.Command{
	Use:   "prune <file.docx>",
	Short: "Delete old backups, keeping the most recent ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := backupsFromConfig()
		keep := backupsPruneKeep
		if keep < 0 {
			keep = config.Load().KeepBackups
		}
		removed, err := b.Prune(args[0], keep)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d backup(s)\n", removed)
		return nil
	},
}

func backupsFromConfig() *docio.Backups {
	return &docio.Backups{Dir: config.Load().BackupDir}
}

func init() {
	backupsPruneCmd.Flags().IntVar(&backupsPruneKeep, "keep", -1, "number of backups to keep (default KEEP_BACKUPS)")

	backupsCmd.AddCommand(backupsListCmd, backupsRestoreCmd, backupsPruneCmd)
	rootCmd.AddCommand(backupsCmd)
}
