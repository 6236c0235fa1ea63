package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/rake/internal/config"
	"github.com/maxvaer/rake/internal/logging"
	"github.com/maxvaer/rake/internal/runner"
	"github.com/maxvaer/rake/pkg/version"
)

var (
	opts      config.Options
	timeoutMs int
	headers   []string

	log = logrus.New()
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "wordlist"}},
	{"MATCHERS", []string{"match-code", "match-size", "match-word"}},
	{"FILTERS", []string{"filter-code", "filter-size", "filter-word"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "rate"}},
	{"HTTP", []string{"method", "header", "user-agent", "proxy", "follow-redirect"}},
	{"OUTPUT", []string{"hide-time", "no-color", "quiet", "verbose"}},
}

var rootCmd = &cobra.Command{
	Use:     "rake -u <url> -w <wordlist> [flags]",
	Short:   "Fast concurrent web content discovery",
	Version: version.Version,
	Long: `rake substitutes every wordlist entry into the {} placeholder of a URL
template, requests the result concurrently and prints the responses that
survive the match and filter rules.`,
	Example: `  rake -u https://example.com/{} -w common.txt
  rake -u https://example.com/{}.php -w words.txt -t 80 -c 404
  rake -u https://example.com/{} -w words.txt -s 0 --match-code 200,301
  rake -u https://example.com/api/{} -w words.txt -X POST -H "Authorization: Bearer x"
  rake -u https://example.com/{} -w words.txt --filter-word "Not Found" --rate 50`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Configure(log, logging.Options{
			Verbose: opts.Verbose,
			Quiet:   opts.Quiet,
			NoColor: opts.NoColor,
		})
		if opts.URL == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return config.ErrMissingURL
		}
		opts.Timeout = time.Duration(timeoutMs) * time.Millisecond
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.Run(cmd.Context(), &opts, log)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "URL template containing "+config.Placeholder)
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", "", "Wordlist path, one payload per line")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", config.DefaultThreads,
		fmt.Sprintf("Number of concurrent workers (%d-%d)", config.MinThreads, config.MaxThreads))
	f.IntVarP(&timeoutMs, "timeout", "m", int(config.DefaultTimeout/time.Millisecond), "HTTP request timeout in milliseconds")
	f.Float64Var(&opts.Rate, "rate", 0, "Maximum requests per second across all workers")

	// Matchers
	f.Var(&numSliceValue[uint16]{target: &opts.MatchStatus, bits: 16}, "match-code", "Only show these status codes (comma-separated)")
	f.Var(&numSliceValue[uint64]{target: &opts.MatchSize, bits: 64}, "match-size", "Only show responses of these sizes (comma-separated)")
	f.StringArrayVar(&opts.MatchWords, "match-word", nil, "Only show responses containing this string, repeatable")

	// Filters
	f.VarP(&numSliceValue[uint16]{target: &opts.FilterStatus, bits: 16}, "filter-code", "c", "Hide these status codes (comma-separated)")
	f.VarP(&numSliceValue[uint64]{target: &opts.FilterSize, bits: 64}, "filter-size", "s", "Hide responses of these sizes (comma-separated)")
	f.StringArrayVar(&opts.FilterWords, "filter-word", nil, "Hide responses containing this string, repeatable")

	// HTTP
	f.StringVarP(&opts.Method, "method", "X", config.DefaultMethod, "HTTP method")
	f.StringArrayVarP(&headers, "header", "H", nil, "Custom header (Key: Value), repeatable")
	f.StringVarP(&opts.UserAgent, "user-agent", "a", config.DefaultUserAgent, "User-Agent string")
	f.StringVarP(&opts.Proxy, "proxy", "p", "", "HTTP proxy URL")
	f.BoolVarP(&opts.FollowRedirects, "follow-redirect", "r", false, "Follow HTTP redirects")

	// Output
	f.BoolVar(&opts.HideTime, "hide-time", false, "Hide the TIME column")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "No banner, no progress bar")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug diagnostics on stderr")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	// Headers must be in the map before Validate runs.
	rootCmd.PreRunE = chainPreRun(func(cmd *cobra.Command, args []string) error {
		parsed, err := parseHeaders(headers)
		if err != nil {
			return err
		}
		opts.Headers = parsed
		return nil
	}, rootCmd.PreRunE)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

// parseHeaders turns "Key: Value" pairs into a map. Later duplicates win.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		key, val, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out, nil
}

// numSliceValue implements pflag.Value for comma-separated unsigned lists.
// Repeated flags append.
type numSliceValue[T uint16 | uint64] struct {
	target *[]T
	bits   int
}

func (v *numSliceValue[T]) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.FormatUint(uint64(val), 10)
	}
	return strings.Join(parts, ",")
}

func (v *numSliceValue[T]) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, v.bits)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", p, err)
		}
		*v.target = append(*v.target, T(n))
	}
	return nil
}

func (v *numSliceValue[T]) Type() string { return "uints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	const col = 32
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
          _
  _ _ __ _| |_____
 | '_/ _' | / / -_)
 |_| \__,_|_\_\___|   %s

`, ver)
}
