package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits list-valued variables
    "time"    // time expresses deadline and grace durations
)

// defaultRooms is the fixed set of physical rooms when ROOMS is not
// set.  Availability is derived by scanning bills, never stored.
var defaultRooms = []string{
    "heaven lounge room",
    "cloud nine room",
    "moonlight room",
    "velvet room",
    "starlight room",
    "paradise room",
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// payment deadline and the booking grace window.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    JWTSecret       string        // secret used to verify operator bearer tokens
    PaymentDeadline time.Duration // how long a bill may await payment before cancellation
    BookingGrace    time.Duration // how far in the past a start time may lie
    DraftTTL        time.Duration // lifetime of a stored booking draft
    Rooms           []string      // fixed list of physical room names
    CatalogPath     string        // optional JSON service catalog file
    VIPTiersPath    string        // optional JSON tier multiplier file
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The kernel knobs
// (deadline, grace, rooms) all carry defaults so a bare environment can
// still boot a development server.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),      // environment (dev/test/prod)
        Port:            must("APP_PORT"),     // port to bind the HTTP server
        DBUser:          os.Getenv("DB_USER"), // database user (empty enables the in-memory ledger)
        DBPass:          os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:          os.Getenv("DB_HOST"), // database host
        DBPort:          os.Getenv("DB_PORT"), // database port
        DBName:          os.Getenv("DB_NAME"), // database name
        JWTSecret:       must("JWT_SECRET"),   // secret for operator tokens
        PaymentDeadline: time.Duration(intOr("PAYMENT_DEADLINE_SEC", 300)) * time.Second,
        BookingGrace:    time.Duration(intOr("BOOKING_GRACE_MIN", 5)) * time.Minute,
        DraftTTL:        time.Duration(intOr("DRAFT_TTL_MIN", 10)) * time.Minute,
        Rooms:           rooms(os.Getenv("ROOMS")),
        CatalogPath:     os.Getenv("CATALOG_PATH"),
        VIPTiersPath:    os.Getenv("VIP_TIERS_PATH"),
    }
}

// UseDatabase reports whether a MySQL ledger should be opened.  All
// five DB_* variables must be present apart from the password.
func (c Config) UseDatabase() bool {
    return c.DBUser != "" && c.DBHost != "" && c.DBPort != "" && c.DBName != ""
}

// rooms parses a comma-separated room list, falling back to the
// built-in six rooms.
func rooms(s string) []string {
    if s == "" {
        return defaultRooms
    }
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    if len(out) == 0 {
        return defaultRooms
    }
    return out
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr retrieves an integer environment variable with a default.  An
// unparsable value is fatal rather than silently defaulted: a typo in
// the payment deadline must not ship.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
