package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/peanut-brulee/config"
	"github.com/luca-patrignani/peanut-brulee/keys"
	"github.com/luca-patrignani/peanut-brulee/session"
)

var configFileName = flag.String("config", "./peanut.toml", "TOML config file path")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config file %s: %v\n", *configFileName, err)
		os.Exit(1)
	}
	level, _ := cfg.PtermLevel()
	scheme, _ := cfg.Scheme()

	// Create a new slog handler with the default PTerm logger
	handler := pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(level))

	// Create a new slog logger with the handler
	logger := slog.New(handler)

	if cfg.Banner {
		title, err := pterm.DefaultBigText.WithLetters(
			putils.LettersFromStringWithStyle("P", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("eanut ", pterm.FgDarkGray.ToStyle()),
			putils.LettersFromStringWithStyle("B", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("rulee", pterm.FgDarkGray.ToStyle()),
		).Srender()
		if err != nil {
			logger.Error(err.Error())
		}
		pterm.Print(title)
	}

	s := session.New(
		session.WithKeySource(keys.NewGenerator(scheme)),
		session.WithOpeningBalance(cfg.OpeningBalance),
		session.WithLogger(logger),
	)
	logger.Info("session started", "key_scheme", scheme.Name(), "opening_balance", cfg.OpeningBalance)

	sh := newShell(s, os.Stdout)
	if err := sh.run(os.Stdin); err != nil {
		logger.Error("session aborted", "error", err)
		os.Exit(1)
	}
}
