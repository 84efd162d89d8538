package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	twitterapi "github.com/neldivad/twitterapi-go"
)

var (
	cfgFile  string
	apiKey   string
	proxy    string
	cacheDir string
	verbose  bool

	limit    int
	pageSize int
	noCache  bool

	replyTo    string
	attachment string

	interval time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "twitterapi",
	Short: "Search, follow-graph, posting and monitoring over twitterapi.io",
	Long: `twitterapi is a small CLI over the twitterapi.io hosted Twitter/X API.
Search results and follow lists are paginated, deduplicated, and cached
on disk so repeated queries cost no API credits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return loadConfig()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.twitterapi/config.yaml)")
	pf.StringVar(&apiKey, "api-key", "", "twitterapi.io API key (overrides config)")
	pf.StringVar(&proxy, "proxy", "", "proxy URL for all requests")
	pf.StringVar(&cacheDir, "cache-dir", "", "result cache directory")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	for _, c := range []*cobra.Command{searchCmd, followingsCmd, followersCmd} {
		c.Flags().IntVar(&limit, "limit", 20, "maximum items to fetch")
		c.Flags().IntVar(&pageSize, "page-size", 20, "items per request (20-200)")
		c.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	}

	postCmd.Flags().StringVar(&replyTo, "reply-to", "", "tweet id to reply to")
	postCmd.Flags().StringVar(&attachment, "attachment", "", "attachment URL")

	monitorCmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "poll interval")

	rootCmd.AddCommand(searchCmd, followingsCmd, followersCmd, postCmd, monitorCmd)
}

// loadConfig reads ~/.twitterapi/config.yaml (or --config) and the
// TWITTERAPI_* environment, then lets flags override.
func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(home, ".twitterapi"))
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("TWITTERAPI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	if proxy == "" {
		proxy = viper.GetString("proxy")
	}
	if cacheDir == "" {
		cacheDir = viper.GetString("cache_dir")
	}
	return nil
}

func newClient() (*twitterapi.Client, error) {
	return twitterapi.NewClient(twitterapi.ClientConfig{
		APIKey:   apiKey,
		Proxy:    proxy,
		CacheDir: cacheDir,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run an advanced search and print tweets as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		opts := twitterapi.CollectOptions{Limit: limit, PageSize: pageSize}
		var res *twitterapi.CollectionResult
		if noCache {
			res, err = client.SearchTweets(ctx, args[0], opts)
		} else {
			res, err = client.SearchTweetsCached(ctx, "search", args[0], opts)
		}
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var followingsCmd = &cobra.Command{
	Use:   "followings <username>",
	Short: "List accounts a user follows",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runUserList(args[0], true) },
}

var followersCmd = &cobra.Command{
	Use:   "followers <username>",
	Short: "List a user's followers",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runUserList(args[0], false) },
}

func runUserList(username string, followings bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	opts := twitterapi.CollectOptions{Limit: limit, PageSize: pageSize}
	var res *twitterapi.CollectionResult
	switch {
	case followings && noCache:
		res, err = client.GetFollowings(ctx, username, opts)
	case followings:
		res, err = client.GetFollowingsCached(ctx, username, opts)
	case noCache:
		res, err = client.GetFollowers(ctx, username, opts)
	default:
		res, err = client.GetFollowersCached(ctx, username, opts)
	}
	if err != nil {
		return err
	}
	return printJSON(res)
}

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Log in and post a tweet",
	Long: `Logs in with the account credentials from the config file
(login.username, login.email, login.password, login.totp_secret) and
posts the given text. Sessions persist between runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		creds := twitterapi.Credentials{
			Username:   viper.GetString("login.username"),
			Email:      viper.GetString("login.email"),
			Password:   viper.GetString("login.password"),
			TOTPSecret: viper.GetString("login.totp_secret"),
		}
		if err := client.Login(ctx, creds); err != nil {
			return err
		}

		id, err := client.PostTweet(ctx, args[0], twitterapi.PostOptions{
			ReplyToTweetID: replyTo,
			AttachmentURL:  attachment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("posted tweet %s\n", id)
		return nil
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor <username>",
	Short: "Poll an account for new tweets and print them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		m := &twitterapi.Monitor{
			Searcher: client,
			Handle:   args[0],
			Interval: interval,
			Handler: func(items []twitterapi.Item) {
				for _, it := range items {
					fmt.Printf("[%v] %v\n", it["createdAt"], it["text"])
				}
			},
		}
		err = m.Run(ctx)
		if err == context.Canceled {
			fmt.Println("monitoring stopped")
			return nil
		}
		return err
	},
}
