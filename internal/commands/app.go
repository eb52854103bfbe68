package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/salesboard-dev/salesboard/internal/accumulate"
	"github.com/salesboard-dev/salesboard/internal/config"
	"github.com/salesboard-dev/salesboard/internal/fetch"
	"github.com/salesboard-dev/salesboard/internal/history"
	"github.com/salesboard-dev/salesboard/internal/logging"
	"github.com/salesboard-dev/salesboard/internal/model"
	"github.com/salesboard-dev/salesboard/internal/present"
	"github.com/salesboard-dev/salesboard/internal/session"
	"github.com/salesboard-dev/salesboard/internal/summary"
)

// clock is the time source for preset resolution. Tests pin it.
var clock = time.Now

// app is the wiring shared by the summary and watch commands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	board    *present.Board
	renderer present.Renderer
	session  *session.Session
}

// newApp resolves the configuration, applies flag overrides and builds the
// fetch pipeline. Logs go to logOut; format overrides display.format when
// set.
func newApp(opts *globalOptions, format string, logOut io.Writer) (*app, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.endpoint != "" {
		cfg.API.Endpoint = opts.endpoint
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if format != "" {
		cfg.Display.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := present.DefaultRegistry()
	renderer := registry.Get(cfg.Display.Format)
	if renderer == nil {
		return nil, fmt.Errorf("unknown format %q (available: %s)", cfg.Display.Format, strings.Join(registry.Formats(), ", "))
	}

	log, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	client, err := fetch.New(cfg.API.Endpoint, cfg.API.Timeout,
		fetch.WithLogger(logging.Component(log, "fetch")))
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	acc := accumulate.New(client, accumulate.Options{
		MaxPages:          cfg.API.MaxPages,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logging.Component(log, "accumulate"),
	})

	board := present.NewSalesBoard()
	sess := session.New(acc, board, session.Options{
		Policy: policyFromConfig(cfg.Policy),
		Logger: logging.Component(log, "session"),
		Now:    clock,
	})

	log.WithFields(logrus.Fields{
		"endpoint": cfg.API.Endpoint,
		"format":   renderer.Format(),
	}).Debug("salesboard configured")

	return &app{
		cfg:      cfg,
		log:      log,
		board:    board,
		renderer: renderer,
		session:  sess,
	}, nil
}

func policyFromConfig(p config.PolicyConfig) summary.Policy {
	return summary.Policy{
		SellType:        model.TransactionType(p.SellType),
		SuccessStatus:   model.TransactionStatus(p.SuccessStatus),
		TopUpThreshold:  p.TopUpThreshold,
		TopUpMultiplier: p.TopUpMultiplier,
	}
}

// render writes the current board with the configured renderer.
func (a *app) render(w io.Writer) error {
	return a.renderer.Render(w, a.board.Snapshot())
}

// record appends a published outcome to the history file, if one is
// configured. Failures are logged and do not fail the command.
func (a *app) record(o session.Outcome) {
	if a.cfg.History.Path == "" || o.Kind == session.KindStale {
		return
	}
	e := history.Entry{
		Timestamp:    clock(),
		CycleID:      o.CycleID,
		Range:        o.Query.Label,
		Query:        o.Query.Args,
		Outcome:      o.Kind.String(),
		Transactions: o.Count,
		Wallet:       o.Summary.Wallet,
		Sales:        o.Summary.Sales,
		Rebates:      o.Summary.Rebates,
		TopUps:       o.Summary.TopUps,
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	if err := history.Append(a.cfg.History.Path, []history.Entry{e}); err != nil {
		a.log.WithError(err).Warn("recording history")
	}
}
