// Command objdis is a thin, ambient front-end over pkg/driver: it
// reads a raw binary blob as one flat 64-bit code section and prints
// the resulting disassembly listing. Object-file parsing (COFF/ELF/
// Mach-O/OMF section extraction) is out of scope for the core and
// stays out of scope here too — a real front-end would plug a section
// reader in before AddSection. Styled after containers-podman's
// cobra command trees (cmd/podman-testing/main.go).
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/halfbyte/objdis/pkg/disasm"
	"github.com/halfbyte/objdis/pkg/driver"
)

var (
	flagDialect  string
	flagCRLF     bool
	flagOut      string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "objdis <input-file>",
	Short:         "Disassemble a raw binary blob to MASM/NASM/GAS assembly text",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDisassemble,
}

func init() {
	defaultDialect := env.Str("OBJDIS_DIALECT", "nasm")
	fl := rootCmd.PersistentFlags()
	fl.StringVar(&flagDialect, "dialect", defaultDialect, "output dialect: masm, nasm, or gas")
	fl.BoolVar(&flagCRLF, "crlf", env.Bool("OBJDIS_CRLF"), "use CRLF line endings in the output listing")
	fl.StringVar(&flagOut, "out", "", "write the listing here instead of stdout")
	fl.StringVar(&flagLogLevel, "log-level", "warn", "logrus level for diagnostic output (debug, info, warn, error)")
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := logrus.New()
	logger.SetLevel(level)

	dialect, ok := disasm.ParseDialect(flagDialect)
	if !ok {
		return fmt.Errorf("unknown --dialect %q: want masm, nasm, or gas", flagDialect)
	}

	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	drv := driver.NewDriver(
		driver.WithDialect(dialect),
		driver.WithCRLF(flagCRLF),
		driver.WithReporter(driver.LogrusReporter{Logger: logger}),
	)

	if _, err := drv.AddSection(disasm.Section{
		Bytes:     blob,
		InitSize:  int64(len(blob)),
		TotalSize: int64(len(blob)),
		Kind:      disasm.SectionCode,
		WordSize:  disasm.Word64,
		Name:      ".text",
	}); err != nil {
		return fmt.Errorf("adding section: %w", err)
	}

	if err := drv.Run(); err != nil {
		return fmt.Errorf("running disassembly: %w", err)
	}

	out := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOut, err)
		}
		defer f.Close()
		out = f
	}
	_, err = drv.WriteTo(out)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
