package db

import (
	"net/url"
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a lib/pq key=value list.
// It trims quotes and whitespace and, if given key=value form, returns it cleaned.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// ToURLDSN builds a URL style DSN from a key=value list; golang-migrate only accepts URLs.
func ToURLDSN(kvDSN string) string {
	if kvDSN == "" {
		return kvDSN
	}
	lower := strings.ToLower(kvDSN)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return kvDSN
	}
	m := map[string]string{}
	for _, part := range strings.Fields(kvDSN) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			m[strings.ToLower(kv[0])] = kv[1]
		}
	}
	host := m["host"]
	user := m["user"]
	dbname := m["dbname"]
	if host == "" || user == "" || dbname == "" {
		return kvDSN
	}
	u := &url.URL{Scheme: "postgres", Host: host}
	if port := m["port"]; port != "" {
		u.Host = host + ":" + port
	}
	if pass := m["password"]; pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	u.Path = "/" + dbname
	if sslm, ok := m["sslmode"]; ok {
		q := url.Values{}
		q.Set("sslmode", sslm)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// MySQLDSN converts a mysql:// or mariadb:// URL into the go-sql-driver form
// user:pass@tcp(host:port)/db?params. Other inputs are returned unchanged.
func MySQLDSN(raw string) string {
	s := strings.TrimSpace(raw)
	rest, ok := strings.CutPrefix(s, "mysql://")
	if !ok {
		rest, ok = strings.CutPrefix(s, "mariadb://")
	}
	if !ok {
		return s
	}
	creds, hostAndDB, found := strings.Cut(rest, "@")
	if !found {
		return s
	}
	hostPort, dbName, found := strings.Cut(hostAndDB, "/")
	if !found {
		return s
	}
	params := "?charset=utf8mb4&parseTime=True&loc=UTC"
	if name, q, hasQuery := strings.Cut(dbName, "?"); hasQuery {
		dbName = name
		params = "?" + q
	}
	return creds + "@tcp(" + hostPort + ")/" + dbName + params
}

var passwordRegex = regexp.MustCompile(`(password=)([^\s]+)`)
var urlPasswordRegex = regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`)

// MaskDSN hides passwords so the DSN can be logged.
func MaskDSN(dsn string) string {
	masked := passwordRegex.ReplaceAllString(dsn, `${1}***`)
	return urlPasswordRegex.ReplaceAllString(masked, `${1}***${3}`)
}

// SQLiteDSN enables foreign key enforcement through the connection string so
// every pooled connection gets it, not only the first one.
func SQLiteDSN(raw string) string {
	if strings.Contains(raw, "_foreign_keys=") || strings.Contains(raw, "_fk=") {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "_foreign_keys=on"
}
