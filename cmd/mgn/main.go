package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "magnate/internal/cli"
	"magnate/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "mgn",
		Short:        "Magnate CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newGameCmd(&apiBase),
		newCompanyCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requireSession() (cl.Session, error) {
	session, err := cl.LoadSession()
	if err != nil {
		return cl.Session{}, fmt.Errorf("not logged in, run `mgn login` first: %w", err)
	}
	return session, nil
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a Magnate account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			username, err := promptOptional("Username (optional)")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password, username)
			if err != nil {
				return err
			}
			if strings.TrimSpace(session.AccessToken) == "" {
				printWarn("Signup created. Verify email, then run `mgn login`.")
				return nil
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Magnate",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newGameCmd(apiBase *string) *cobra.Command {
	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Create, join and run games",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new game and join as the first player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			mode, _ := cmd.Flags().GetString("mode")
			timerless, _ := cmd.Flags().GetBool("timerless")
			turnLimit, _ := cmd.Flags().GetInt("turns")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CreateGame(ctx, session.AccessToken, args[0], mode, timerless, turnLimit)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Game created: game_id=%v player_id=%v", out["game_id"], out["player_id"]))
			return nil
		},
	}
	createCmd.Flags().String("mode", "standard", "phase timing mode (standard|blitz)")
	createCmd.Flags().Bool("timerless", false, "disable phase deadlines")
	createCmd.Flags().Int("turns", 0, "turn limit (0 for default)")

	joinCmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join an existing game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			gameID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).JoinGame(ctx, session.AccessToken, gameID)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Joined: player_id=%v cash=%v", out["player_id"], out["cash"]))
			return nil
		},
	}

	phaseCmd := &cobra.Command{
		Use:   "phase <game-id>",
		Short: "Show the current phase and deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			gameID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CurrentPhase(ctx, session.AccessToken, gameID)
			if err != nil {
				return err
			}
			renderPhase(out)
			return nil
		},
	}

	trackCmd := &cobra.Command{
		Use:   "track <game-id> <resource-type>",
		Short: "Show a resource track's price ladder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			gameID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Track(ctx, session.AccessToken, gameID, args[1])
			if err != nil {
				return err
			}
			renderTrack(out)
			return nil
		},
	}

	readyCmd := &cobra.Command{
		Use:   "ready <game-id> <player-id>",
		Short: "Signal readiness for early phase advance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			gameID, err := parseID(args[0])
			if err != nil {
				return err
			}
			actorID, err := parseID(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if _, err := newClient(apiBase).Ready(ctx, session.AccessToken, gameID, actorID); err != nil {
				return err
			}
			printSuccess("Ready recorded.")
			return nil
		},
	}

	advanceCmd := &cobra.Command{
		Use:   "advance <game-id>",
		Short: "Force the current phase to close and the next to open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			gameID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Advance(ctx, session.AccessToken, gameID)
			if err != nil {
				return err
			}
			if gameOver, _ := out["game_over"].(bool); gameOver {
				printWarn("Game over.")
				return nil
			}
			printSuccess(fmt.Sprintf("Now in turn %v, phase %v", out["turn_seq"], out["phase"]))
			return nil
		},
	}

	gameCmd.AddCommand(createCmd, joinCmd, phaseCmd, trackCmd, readyCmd, advanceCmd)
	return gameCmd
}

func newCompanyCmd(apiBase *string) *cobra.Command {
	companyCmd := &cobra.Command{
		Use:   "company",
		Short: "Run a company you are CEO of",
	}

	econCmd := &cobra.Command{
		Use:   "econ <company-id>",
		Short: "Show a company's economic state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			companyID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CompanyEconomics(ctx, session.AccessToken, companyID)
			if err != nil {
				return err
			}
			renderEconomics(out)
			return nil
		},
	}

	factoryCmd := &cobra.Command{
		Use:   "build <company-id>",
		Short: "Order a factory for the construction phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			companyID, err := parseID(args[0])
			if err != nil {
				return err
			}
			gameID, _ := cmd.Flags().GetInt64("game")
			actorID, _ := cmd.Flags().GetInt64("actor")
			size, _ := cmd.Flags().GetInt("size")
			resources, _ := cmd.Flags().GetStringSlice("resources")
			upgrade, _ := cmd.Flags().GetInt64("upgrade")

			var upgradePtr *int64
			if upgrade > 0 {
				upgradePtr = &upgrade
			}
			for i := range resources {
				resources[i] = strings.ToUpper(strings.TrimSpace(resources[i]))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).BuildFactory(ctx, session.AccessToken, gameID, companyID, actorID, size, resources, upgradePtr)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Order placed: order_id=%v cost=%v pending=%v", out["order_id"], out["cost"], out["pending_cost"]))
			return nil
		},
	}
	factoryCmd.Flags().Int64("game", 0, "game id")
	factoryCmd.Flags().Int64("actor", 0, "your player id")
	factoryCmd.Flags().Int("size", 1, "factory size class 1-4")
	factoryCmd.Flags().StringSlice("resources", nil, "blueprint resource types, comma separated")
	factoryCmd.Flags().Int64("upgrade", 0, "existing factory id to upgrade in place")
	_ = factoryCmd.MarkFlagRequired("game")
	_ = factoryCmd.MarkFlagRequired("actor")
	_ = factoryCmd.MarkFlagRequired("resources")

	campaignCmd := &cobra.Command{
		Use:   "campaign <company-id>",
		Short: "Start a marketing campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			companyID, err := parseID(args[0])
			if err != nil {
				return err
			}
			gameID, _ := cmd.Flags().GetInt64("game")
			actorID, _ := cmd.Flags().GetInt64("actor")
			tier, _ := cmd.Flags().GetInt("tier")
			slot, _ := cmd.Flags().GetInt("slot")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).StartCampaign(ctx, session.AccessToken, gameID, companyID, actorID, tier, slot)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Campaign started: cost=%v brand_bonus=%v cash=%v", out["cost"], out["brand_bonus"], out["cash"]))
			return nil
		},
	}
	campaignCmd.Flags().Int64("game", 0, "game id")
	campaignCmd.Flags().Int64("actor", 0, "your player id")
	campaignCmd.Flags().Int("tier", 1, "campaign tier 1-3")
	campaignCmd.Flags().Int("slot", 1, "campaign slot this turn")
	_ = campaignCmd.MarkFlagRequired("game")
	_ = campaignCmd.MarkFlagRequired("actor")

	researchCmd := &cobra.Command{
		Use:   "research <company-id>",
		Short: "Fund sector research for this turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			companyID, err := parseID(args[0])
			if err != nil {
				return err
			}
			gameID, _ := cmd.Flags().GetInt64("game")
			actorID, _ := cmd.Flags().GetInt64("actor")
			sectorID, _ := cmd.Flags().GetInt64("sector")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).SubmitResearch(ctx, session.AccessToken, gameID, companyID, actorID, sectorID)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Research funded: order_id=%v cost=%v cash=%v", out["order_id"], out["cost"], out["cash"]))
			return nil
		},
	}
	researchCmd.Flags().Int64("game", 0, "game id")
	researchCmd.Flags().Int64("actor", 0, "your player id")
	researchCmd.Flags().Int64("sector", 0, "the company's sector id")
	_ = researchCmd.MarkFlagRequired("game")
	_ = researchCmd.MarkFlagRequired("actor")
	_ = researchCmd.MarkFlagRequired("sector")

	voteCmd := &cobra.Command{
		Use:   "vote <company-id> <outcome>",
		Short: "Cast a dividend vote (retained|fifty|full)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := requireSession()
			if err != nil {
				return err
			}
			companyID, err := parseID(args[0])
			if err != nil {
				return err
			}
			outcome, err := normalizeOutcome(args[1])
			if err != nil {
				return err
			}
			gameID, _ := cmd.Flags().GetInt64("game")
			turnID, _ := cmd.Flags().GetInt64("turn")
			actorID, _ := cmd.Flags().GetInt64("actor")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).CastVote(ctx, session.AccessToken, gameID, companyID, turnID, actorID, outcome)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Vote cast with weight %v", out["weight"]))
			return nil
		},
	}
	voteCmd.Flags().Int64("game", 0, "game id")
	voteCmd.Flags().Int64("turn", 0, "game turn id")
	voteCmd.Flags().Int64("actor", 0, "your player id")
	_ = voteCmd.MarkFlagRequired("game")
	_ = voteCmd.MarkFlagRequired("turn")
	_ = voteCmd.MarkFlagRequired("actor")

	companyCmd.AddCommand(econCmd, factoryCmd, campaignCmd, researchCmd, voteCmd)
	return companyCmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func normalizeOutcome(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "retained":
		return "RETAINED", nil
	case "fifty", "fifty-fifty", "50/50":
		return "DIVIDEND_FIFTY_FIFTY", nil
	case "full":
		return "DIVIDEND_FULL", nil
	default:
		return "", fmt.Errorf("unknown outcome %q, want retained, fifty or full", raw)
	}
}
