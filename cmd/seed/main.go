// seed generates a SQL script that creates an account for every email on the
// approved allowlist, so the team can log in before self-service registration.
//
// Usage: go run ./cmd/seed [path/approved_emails.yaml] [initial-password]
// Defaults: approved_emails.yaml in the current directory, password "ChangeMe!2026".
// Writes: internal/infrastructure/postgres/migrations/003_seed_users.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mit-motorsports/purchasing-api/internal/infrastructure/directory"
)

const outPath = "internal/infrastructure/postgres/migrations/003_seed_users.sql"

func main() {
	allowlistPath := "approved_emails.yaml"
	if len(os.Args) > 1 {
		allowlistPath = os.Args[1]
	}
	password := "ChangeMe!2026"
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	dir, err := directory.Load(allowlistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load allowlist: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	emails := dir.Emails()
	sorted := make([]string, 0, len(emails))
	for e := range emails {
		sorted = append(sorted, e)
	}
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("-- Seed users from the approved-email allowlist.\n")
	b.WriteString("-- Every account starts with the same initial password; users should change it.\n")
	for _, email := range sorted {
		role := emails[email]
		name := displayName(email)
		fmt.Fprintf(&b,
			"INSERT INTO users (id, email, password_hash, full_name, role, is_active, login_count, created_at, updated_at)\n"+
				"VALUES ('%s', '%s', '%s', '%s', '%s', TRUE, 0, now(), now())\n"+
				"ON CONFLICT (email) DO NOTHING;\n",
			uuid.New().String(), email, string(hash), name, role,
		)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d users)\n", outPath, len(sorted))
}

// displayName derives a readable name from the local part of the email.
func displayName(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' || r == '-' })
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}
