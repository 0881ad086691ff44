package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings" // strings splits list-valued variables
)

// defaultRooms is the room catalog used when ROOMS is not set.  The
// names double as the sheet titles of the spreadsheet mirror, so the
// catalog and the spreadsheet tabs must stay in sync.
var defaultRooms = []string{
    "Ruang Rapat Dirjen",
    "Ruang Rapat Sesditjen",
    "Command Center",
    "Ruang Rapat Lt2",
    "Ballroom",
}

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The schedule fields (rooms, working hours, slot
// step) are injected here rather than hardcoded so alternate hour ranges and
// room sets are testable without code changes.
type Config struct {
    Env          string   // application environment (e.g. "dev", "prod")
    Port         string   // HTTP port to listen on
    DBUser       string   // database username
    DBPass       string   // database password (optional)
    DBHost       string   // database host address
    DBPort       string   // database port number
    DBName       string   // database name
    JWTSecret    string   // secret used to sign JWTs
    AccessTTLMin int      // access token time-to-live in minutes
    BcryptCost   int      // bcrypt cost for password hashing
    Rooms        []string // bookable room catalog
    DayStart     string   // start of the working-hours window, "HH:mm"
    DayEnd       string   // end of the working-hours window, "HH:mm"
    SlotMinutes  int      // granularity of the time options offered to clients
    SpreadsheetID   string // Google Sheets spreadsheet mirrored by the worker (optional)
    SheetsCredFile  string // path to the service-account credentials JSON (optional)
    FonnteAPIKey    string // Fonnte API key for WhatsApp notifications (optional)
    FonnteTarget    string // destination phone number for notifications (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The side-effect
// integrations (sheets mirror, WhatsApp) are optional: when their variables
// are empty the corresponding consumer simply logs events and does nothing.
func Load() Config {
    return Config{
        Env:          must("APP_ENV"),
        Port:         must("APP_PORT"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
        BcryptCost:   mustInt("BCRYPT_COST"),
        Rooms:        rooms(os.Getenv("ROOMS")),
        DayStart:     getenv("WORK_DAY_START", "07:30"),
        DayEnd:       getenv("WORK_DAY_END", "17:00"),
        SlotMinutes:  atoi(getenv("SLOT_MINUTES", "30")),
        SpreadsheetID:  os.Getenv("SHEETS_SPREADSHEET_ID"),
        SheetsCredFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
        FonnteAPIKey:   os.Getenv("FONNTE_API_KEY"),
        FonnteTarget:   os.Getenv("FONNTE_TARGET"),
    }
}

// rooms parses a comma-separated ROOMS value, falling back to the
// default catalog when unset.
func rooms(s string) []string {
    if s == "" {
        out := make([]string, len(defaultRooms))
        copy(out, defaultRooms)
        return out
    }
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    if len(out) == 0 {
        log.Fatalf("ROOMS is set but contains no room names: %q", s)
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
