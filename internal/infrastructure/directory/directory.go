// Package directory loads the approved-email allowlist that gates
// registration and assigns roles.
package directory

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

var _ ports.Directory = (*Directory)(nil)

// file is the YAML layout: a list of emails per role.
//
//	requester:
//	  - member@mit.edu
//	sublead:
//	  - lead@mit.edu
type file struct {
	Requester []string `yaml:"requester"`
	Sublead   []string `yaml:"sublead"`
	Executive []string `yaml:"executive"`
	Business  []string `yaml:"business"`
}

// Directory is the in-memory email -> role index, loaded once at startup.
type Directory struct {
	roles map[string]entity.Role
}

// Load reads and indexes the allowlist file. An email listed under several
// roles gets the last one in role order (requester, sublead, executive,
// business).
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse indexes allowlist YAML bytes.
func Parse(raw []byte) (*Directory, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("directory: parse allowlist: %w", err)
	}

	d := &Directory{roles: make(map[string]entity.Role)}
	d.index(f.Requester, entity.RoleRequester)
	d.index(f.Sublead, entity.RoleSublead)
	d.index(f.Executive, entity.RoleExecutive)
	d.index(f.Business, entity.RoleBusiness)

	if len(d.roles) == 0 {
		return nil, fmt.Errorf("directory: allowlist is empty")
	}
	return d, nil
}

func (d *Directory) index(emails []string, role entity.Role) {
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		d.roles[e] = role
	}
}

// ResolveRole returns the role for email, or ErrEmailNotApproved.
func (d *Directory) ResolveRole(email string) (entity.Role, error) {
	role, ok := d.roles[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return "", domain.ErrEmailNotApproved
	}
	return role, nil
}

// Emails returns every approved email with its role, for seeding.
func (d *Directory) Emails() map[string]entity.Role {
	out := make(map[string]entity.Role, len(d.roles))
	for e, r := range d.roles {
		out[e] = r
	}
	return out
}
