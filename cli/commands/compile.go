package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
	"github.com/satishbabariya/querystudio-go/cli/internal/watch"
	"github.com/satishbabariya/querystudio-go/query/sqlgen"
	"github.com/satishbabariya/querystudio-go/query/validator"
)

var (
	compileDialect string
	compileOut     string
	compileWatch   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <name>",
	Short: "Compile a saved query to SQL",
	Long: `Compile a saved query document to SQL.

The target dialect defaults to the configured one; pass --dialect to
compile for another database. With --watch the document is recompiled
every time it changes on disk, printing the SQL diff.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(args[0])
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileDialect, "dialect", "d", "", "Target dialect: "+strings.Join(sqlgen.Names(), ", "))
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "Write SQL to a file instead of stdout")
	compileCmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "Recompile whenever the document changes")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	dialectName := compileDialect
	if dialectName == "" {
		dialectName = cfg.Dialect
	}
	d, err := sqlgen.Lookup(dialectName)
	if err != nil {
		return fmt.Errorf("%w: %q (known: %s)", err, dialectName, strings.Join(sqlgen.Names(), ", "))
	}

	compileOnce := func() (string, error) {
		doc, err := st.Load(name)
		if err != nil {
			return "", err
		}
		if result := validator.Validate(doc.Query); !result.Valid {
			for _, msg := range result.Errors {
				ui.PrintWarning("%s", msg)
			}
		}
		return sqlgen.Compile(doc.Query, d), nil
	}

	if !compileWatch {
		sqlText, err := compileOnce()
		if err != nil {
			return err
		}
		if compileOut != "" {
			if err := os.WriteFile(compileOut, []byte(sqlText+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write SQL file: %w", err)
			}
			ui.PrintSuccess("Wrote %s", compileOut)
			return nil
		}
		ui.PrintSQL(sqlText)
		return nil
	}

	return watchCompile(st.Path(name), compileOnce)
}

// watchCompile recompiles on every document change until interrupted,
// printing the full SQL first and diffs afterwards.
func watchCompile(path string, compileOnce func() (string, error)) error {
	printers := ui.GetColorPrinters()
	var last string

	recompile := func() error {
		sqlText, err := compileOnce()
		if err != nil {
			return err
		}
		if sqlText == last {
			return nil
		}
		ui.ColorPrint(printers["info"], "[%s]\n", time.Now().Format("15:04:05"))
		if last == "" {
			ui.PrintSQL(sqlText)
		} else {
			ui.PrintDiff(last, sqlText)
		}
		last = sqlText
		return nil
	}

	w, err := watch.NewWatcher(path, recompile)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		return err
	}
	ui.PrintInfo("Watching %s (press Ctrl+C to stop)", w.File())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
