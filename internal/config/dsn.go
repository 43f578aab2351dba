package config

import (
	"net/url"
	"strings"
)

// PostgresDSN is DBURL with disable_prepared_binary_result=yes added when
// DB_DISABLE_PREPARED_BINARY_RESULT is on. An explicit value in the URL wins.
func (c Config) PostgresDSN() string {
	raw := strings.TrimSpace(c.DBURL)
	if !c.DBDisablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DatabaseName reads the database from either a postgres:// URL or a
// key=value DSN. It is used to label traced queries.
func (c Config) DatabaseName() string {
	raw := strings.TrimSpace(c.DBURL)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}
