// Command ldiffmt reads LDIF, validates it and writes it back in canonical
// form: object classes first, modifications grouped by operation, long and
// unsafe values base64 encoded and folded.
//
//	ldiffmt --in export.ldif --sort --out import.ldif
//	ldiffmt --check --param base=dc=example,dc=com < template.ldif
//
// Settings can also come from a configuration file (--config) or from
// LDIFFMT_* environment variables. A configuration file may carry a params
// table for {{name}} placeholders; its names are read in lower case.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	ldif "github.com/netresearch/simple-ldif-go"
	"github.com/netresearch/simple-ldif-go/dn"
)

var errInvalidRecords = errors.New("ldiffmt: input contains invalid records")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := newLogger(cfg, stderr)

	in := stdin
	if cfg.In != "-" {
		f, err := os.Open(cfg.In)
		if err != nil {
			logger.Error("input_open_failed", slog.String("path", cfg.In), slog.String("error", err.Error()))
			return 1
		}
		defer f.Close()
		in = f
	}

	out := stdout
	var outFile *os.File
	if cfg.Out != "-" && !cfg.Check {
		if outFile, err = os.Create(cfg.Out); err != nil {
			logger.Error("output_open_failed", slog.String("path", cfg.Out), slog.String("error", err.Error()))
			return 1
		}
		out = outFile
	}

	stats, err := format(cfg, in, out, logger)
	if outFile != nil {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	logger.Info("ldif_formatted",
		slog.Int("records", stats.Records),
		slog.Int("written", stats.Written),
		slog.Int("failures", stats.Failures))
	if err != nil {
		logger.Error("ldif_format_failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// formatStats summarises a run.
type formatStats struct {
	Records  int
	Written  int
	Failures int
}

// format copies records from in to out. Invalid records abort the run
// unless SkipErrors or Check is set; Check reports them at the end and
// writes nothing.
func format(cfg Config, in io.Reader, out io.Writer, logger *slog.Logger) (formatStats, error) {
	var stats formatStats

	params := ldif.NewParams(cfg.Params)
	if cfg.UUIDParam {
		params.SetFunc("uuid4", uuid.NewString)
	}
	parser := dn.NewParser(dn.WithLogger(logger))
	defer parser.Stats()

	r := ldif.NewReader(in,
		ldif.WithLogger(logger),
		ldif.WithParamTable(params),
		ldif.WithDNParser(parser))
	w := ldif.NewWriter(out,
		ldif.WithWriterLogger(logger),
		ldif.WithVersionLine(cfg.VersionLine))

	var pending []*ldif.Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !ldif.IsSyntaxError(err) || !(cfg.SkipErrors || cfg.Check) {
				return stats, err
			}
			stats.Failures++
			logger.Warn("ldif_record_skipped",
				slog.Int("line", ldif.ErrorLine(err)),
				slog.String("error", err.Error()))
			continue
		}
		stats.Records++

		switch {
		case cfg.Check:
		case cfg.Sort:
			pending = append(pending, rec)
		default:
			if err := w.Write(rec); err != nil {
				return stats, err
			}
			stats.Written++
		}
	}

	if cfg.Check {
		if stats.Failures > 0 {
			return stats, fmt.Errorf("%w: %d of %d", errInvalidRecords, stats.Failures, stats.Records+stats.Failures)
		}
		return stats, nil
	}

	if cfg.Sort {
		ldif.SortRecords(pending)
		if err := w.WriteAll(pending); err != nil {
			stats.Written = w.Count()
			return stats, err
		}
		stats.Written = w.Count()
	}
	return stats, nil
}
