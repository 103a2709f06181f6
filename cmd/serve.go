package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/grading"
	"github.com/jeeace/jeeace/internal/llm"
	"github.com/jeeace/jeeace/internal/questiongen"
	"github.com/jeeace/jeeace/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation API",
	Long: "Serve the HTTP API used by `take`, `create` and `results`: scoring, test and result " +
		"storage, and question generation when an LLM provider is configured.",
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":5000", "Listen address")
	f.String("marking", "jee", "Marking scheme: jee or simple")
	f.StringSlice("allowed-origins", nil, "CORS origins (default any)")
	f.String("auth-secret", "", "HS256 secret; when set every route except health needs a bearer token")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log, closeLog := newLogger(os.Stdout, false)
	defer closeLog()

	scheme, err := grading.SchemeByName(cfg.Marking)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var gen questiongen.Generator
	if llmCfg, err := llm.Resolve(); err != nil {
		log.Warn().Err(err).Msg("question generation disabled")
	} else if provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log); err != nil {
		log.Warn().Err(err).Msg("question generation disabled")
	} else {
		log.Info().Str("provider", llmCfg.Provider).Msg("question generation enabled")
		gen = questiongen.New(provider, questiongen.DefaultConfig(), log)
	}

	var secret []byte
	if cfg.AuthSecret != "" {
		secret = []byte(cfg.AuthSecret)
	}

	srv := server.New(server.Deps{
		Tests:          st.TestRepo(),
		Results:        st.ResultRepo(),
		Generator:      gen,
		Scheme:         scheme,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthSecret:     secret,
	})
	return srv.ListenAndServe(ctx, cfg.Addr)
}
