// Package config loads and validates the run configuration from flags,
// key=value arguments and environment variables.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

// Configuration keys.
const (
	KeyToken              = "token"
	KeyRepo               = "repo"
	KeyFrom               = "from"
	KeyTo                 = "to"
	KeyFormat             = "format"
	KeySummary            = "summary"
	KeySecondaryLimitWait = "secondary_limit_wait"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

const tokenHint = "Please set 'export GITHUB_TOKEN=your_github_token' in your ~/.bashrc or ~/.zshrc and reload your shell.\n" +
	"You can get a token here: https://github.com/settings/tokens/new?scopes=repo&description=Github_KPI_tool"

// Config holds everything a single run needs.
type Config struct {
	Token              string
	Window             domain.QueryWindow
	Format             string
	Summary            bool
	SecondaryLimitWait time.Duration
}

// NewViper returns a viper instance reading GITHUB_KPI_* variables and GITHUB_TOKEN.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GITHUB_KPI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyToken, "GITHUB_TOKEN")
	v.SetDefault(KeyFormat, FormatJSON)
	return v
}

// ApplyKeyValueArgs sets repo=..., from=... and to=... positional arguments on v.
// They take precedence over flags and environment variables.
func ApplyKeyValueArgs(v *viper.Viper, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.Mark(errors.Newf("invalid argument %q, expected key=value", arg), domain.ErrConfiguration)
		}
		switch key {
		case KeyRepo, KeyFrom, KeyTo:
			v.Set(key, value)
		default:
			return errors.Mark(errors.Newf("unknown argument %q, expected one of repo, from, to", key), domain.ErrConfiguration)
		}
	}
	return nil
}

// Load validates the merged settings. The credential is checked first, then the
// presence of repo, from and to, then the date format.
func Load(v *viper.Viper) (*Config, error) {
	token := v.GetString(KeyToken)
	if token == "" {
		return nil, errors.Mark(
			errors.WithHint(errors.New("GITHUB_TOKEN is missing"), tokenHint),
			domain.ErrConfiguration,
		)
	}

	for _, key := range []string{KeyRepo, KeyFrom, KeyTo} {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, errors.Mark(errors.Newf("missing '%s' argument", key), domain.ErrConfiguration)
		}
	}

	repo := strings.TrimSpace(v.GetString(KeyRepo))
	if owner, name, ok := strings.Cut(repo, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, errors.Mark(errors.Newf("invalid repo %q, expected owner/name", repo), domain.ErrConfiguration)
	}

	from, err := parseDate(v.GetString(KeyFrom))
	if err != nil {
		return nil, err
	}
	to, err := parseDate(v.GetString(KeyTo))
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(v.GetString(KeyFormat))
	if format != FormatJSON && format != FormatTable {
		return nil, errors.Mark(errors.Newf("unsupported format %q, use %q or %q", format, FormatJSON, FormatTable), domain.ErrConfiguration)
	}

	wait := v.GetDuration(KeySecondaryLimitWait)
	if wait < 0 {
		return nil, errors.Mark(errors.Newf("secondary limit wait must not be negative, got %s", wait), domain.ErrConfiguration)
	}

	return &Config{
		Token: token,
		Window: domain.QueryWindow{
			Repository: repo,
			From:       from,
			To:         to,
		},
		Format:             format,
		Summary:            v.GetBool(KeySummary),
		SecondaryLimitWait: wait,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.Mark(
			errors.Wrapf(err, "wrong date format %q, use 'YYYY-MM-DD' instead", value),
			domain.ErrConfiguration,
		)
	}
	return t, nil
}
