package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

const sampleYAML = `
requester:
  - ana@mit.edu
  - "  Bob@MIT.edu  "
sublead:
  - lead@mit.edu
executive:
  - exec@mit.edu
business:
  - biz@mit.edu
`

func TestParse_ResolvesRoles(t *testing.T) {
	d, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	cases := map[string]entity.Role{
		"ana@mit.edu":  entity.RoleRequester,
		"bob@mit.edu":  entity.RoleRequester, // trimmed and lowercased on load
		"LEAD@mit.edu": entity.RoleSublead,   // lookup is case-insensitive too
		"exec@mit.edu": entity.RoleExecutive,
		"biz@mit.edu":  entity.RoleBusiness,
	}
	for email, want := range cases {
		role, err := d.ResolveRole(email)
		require.NoError(t, err, email)
		assert.Equal(t, want, role, email)
	}
}

func TestResolveRole_UnknownEmail(t *testing.T) {
	d, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	_, err = d.ResolveRole("stranger@mit.edu")
	assert.ErrorIs(t, err, domain.ErrEmailNotApproved)
}

func TestParse_LastRoleWins(t *testing.T) {
	d, err := Parse([]byte("requester:\n  - both@mit.edu\nbusiness:\n  - both@mit.edu\n"))
	require.NoError(t, err)

	role, err := d.ResolveRole("both@mit.edu")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBusiness, role)
}

func TestParse_EmptyAllowlist(t *testing.T) {
	_, err := Parse([]byte("requester: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestEmails_Snapshot(t *testing.T) {
	d, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	emails := d.Emails()
	assert.Len(t, emails, 5)
	assert.Equal(t, entity.RoleSublead, emails["lead@mit.edu"])
}
