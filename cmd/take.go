package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/app"
	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/grading"
	"github.com/jeeace/jeeace/internal/screens/taketest"
	"github.com/jeeace/jeeace/internal/session"
	"github.com/jeeace/jeeace/internal/store"
)

// offlineUser owns results taken with --offline and no configured identity.
const offlineUser = "local"

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take the current test",
	Long: "Take the test most recently created with `jeeace create`. Answers are scored by the API " +
		"and the result saved there, or locally with --offline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")
		return runTake(cmd, offline)
	},
}

func init() {
	takeCmd.Flags().Bool("offline", false, "Score locally and keep the result in the local database")
	takeCmd.Flags().String("marking", "jee", "Marking scheme for --offline: jee or simple")
}

func runTake(cmd *cobra.Command, offline bool) error {
	ctx := cmd.Context()
	log, closeLog := newLogger(nil, true)
	defer closeLog()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	user, err := identityProvider().Identity(ctx)
	if err != nil && !offline {
		return err
	}

	deps := session.Deps{Logger: log}
	if offline {
		scheme, err := grading.SchemeByName(cfg.Marking)
		if err != nil {
			return err
		}
		if !user.Authenticated() {
			user = auth.Identity{Loaded: true, UserID: offlineUser}
		}
		deps.Evaluator = grading.Local{Scheme: scheme}
		deps.Saver = store.LocalSaver{Repo: st.ResultRepo()}
	} else {
		client := newClient(log)
		deps.Evaluator = client
		deps.Saver = client
	}

	log.Info().Bool("offline", offline).Str("user_id", user.UserID).Msg("starting test")
	root := taketest.New(taketest.Options{
		Context: ctx,
		User:    user,
		Loader:  st.KVRepo(),
		Session: deps,
	})
	return app.Run(ctx, root)
}
