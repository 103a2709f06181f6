package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/llm"
	"github.com/jeeace/jeeace/internal/questiongen"
	"github.com/jeeace/jeeace/internal/testconfig"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new test",
	Long: "Generate questions for each subject and store the test as the current one. Questions " +
		"come from the API, or straight from an LLM provider with --local.",
	Example: `  jeeace create
  jeeace create --subjects Physics,Mathematics --count 10 --duration 30min
  jeeace create --counts Chemistry=40 --difficulty advanced --local`,
	RunE: runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringSlice("subjects", questiongen.DefaultSubjects, "Subjects to include")
	f.Int("count", questiongen.DefaultPerSubject, fmt.Sprintf("Questions per subject (%d-%d)", questiongen.MinPerSubject, questiongen.MaxPerSubject))
	f.StringToInt("counts", nil, "Per-subject counts, e.g. Physics=30,Chemistry=20")
	f.String("duration", questiongen.DefaultDuration, "Time limit: 15min, 30min, 1hour or 3hours")
	f.String("difficulty", string(questiongen.DifficultyMixed), "Difficulty: easy, mixed or advanced")
	f.String("mode", string(questiongen.ModeTimed), "Mode: timed or untimed")
	f.StringSlice("topics", nil, "Topics to focus on")
	f.String("name", "", "Test name")
	f.Bool("local", false, "Generate with a local LLM provider instead of the API")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log, closeLog := newLogger(os.Stderr, false)
	defer closeLog()

	f := cmd.Flags()
	subjects, _ := f.GetStringSlice("subjects")
	count, _ := f.GetInt("count")
	overrides, _ := f.GetStringToInt("counts")
	duration, _ := f.GetString("duration")
	difficulty, _ := f.GetString("difficulty")
	mode, _ := f.GetString("mode")
	topics, _ := f.GetStringSlice("topics")
	name, _ := f.GetString("name")
	local, _ := f.GetBool("local")

	counts := make(map[string]int, len(subjects)+len(overrides))
	for _, s := range subjects {
		counts[strings.TrimSpace(s)] = count
	}
	for s, n := range overrides {
		counts[strings.TrimSpace(s)] = n
	}

	plan, err := questiongen.NewPlan(questiongen.PlanOptions{
		Subjects:   subjects,
		Counts:     counts,
		Duration:   duration,
		Difficulty: questiongen.Difficulty(difficulty),
		Mode:       questiongen.Mode(mode),
		Topics:     topics,
		Name:       name,
	})
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client := newClient(log)

	var gen questiongen.Generator
	if local {
		llmCfg, err := llm.Resolve()
		if err != nil {
			return err
		}
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}
		gen = questiongen.New(provider, questiongen.DefaultConfig(), log)
	} else {
		gen = questiongen.NewRemote(client, log)
	}

	for _, sp := range plan.Subjects {
		fmt.Fprintf(os.Stderr, "Generating %d %s questions...\n", sp.Count, sp.Subject)
	}
	test, err := questiongen.Build(ctx, gen, plan, log)
	if err != nil {
		return err
	}

	// The remote copy is optional; the local one is what `take` reads.
	if user, err := identityProvider().Identity(ctx); err == nil && user.Authenticated() {
		id, err := client.SaveTest(ctx, user.UserID, test)
		if err != nil {
			log.Warn().Err(err).Msg("could not save test to the API")
		} else {
			test.TestID = id
		}
	}

	if err := st.KVRepo().SaveTest(ctx, testconfig.StorageKey, test); err != nil {
		return fmt.Errorf("store test: %w", err)
	}

	printTestSummary(test)
	return nil
}

func printTestSummary(t *testconfig.TestConfiguration) {
	counts := make(map[string]int)
	for _, q := range t.Questions {
		counts[q.Subject]++
	}

	name := t.TestName
	if name == "" {
		name = "Custom Test"
	}
	fmt.Printf("%s: %d questions, %d minutes\n", name, len(t.Questions), t.TimeLimit)
	for _, s := range t.SubjectList() {
		fmt.Printf("  %-14s %3d\n", s, counts[s])
	}
	if t.TestID != "" {
		fmt.Printf("Test id: %s\n", t.TestID)
	}
	fmt.Println("Run `jeeace take` to start.")
}
