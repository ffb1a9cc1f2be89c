package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGenericEmail(t *testing.T) {
	generic := []string{
		"noreply@acme.com", "Support@acme.com", "info@acme.com",
		"donotreply@big.co", "postmaster@x.io", "test@example.com",
	}
	for _, e := range generic {
		assert.True(t, IsGenericEmail(e), e)
	}

	assert.False(t, IsGenericEmail("jane.doe@acme.com"))
	assert.False(t, IsGenericEmail("jsmith@startup.io"))
}

func TestScanEmailsFiltersGeneric(t *testing.T) {
	text := "Contact jane.doe@acme.com or support@acme.com for details."
	found := scanEmails(text, TrustPage)
	require.Len(t, found, 1)
	assert.Equal(t, "jane.doe@acme.com", found[0].Email)
	assert.Equal(t, TrustPage, found[0].Trust)
}

func TestMergeFindingsKeepsHighestTrust(t *testing.T) {
	merged := mergeFindings(
		[]Finding{{Email: "jane@acme.com", Trust: TrustInferred}},
		[]Finding{{Email: "jane@acme.com", Trust: TrustIntercepted}},
		[]Finding{{Email: "bob@acme.com", Trust: TrustPage}},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, Finding{Email: "jane@acme.com", Trust: TrustIntercepted}, merged[0])
	assert.Equal(t, Finding{Email: "bob@acme.com", Trust: TrustPage}, merged[1])
}

func TestMatchesPerson(t *testing.T) {
	assert.True(t, MatchesPerson("jane.doe@random.org", "Jane Doe", ""))
	assert.True(t, MatchesPerson("hr-team@acme.com", "Someone Else", "Acme Corp."))
	assert.False(t, MatchesPerson("bob@random.org", "Jane Doe", "Acme"))
}

func TestInferEmailsPatterns(t *testing.T) {
	found := InferEmails("Jane Doe", "Acme Corp.")
	require.NotEmpty(t, found)

	var emails []string
	for _, f := range found {
		assert.Equal(t, TrustInferred, f.Trust)
		emails = append(emails, f.Email)
	}
	assert.Contains(t, emails, "jane.doe@acme.com")
	assert.Contains(t, emails, "janedoe@acme.com")
	assert.Contains(t, emails, "jdoe@acme.com")
}

func TestInferEmailsNeedsNameAndCompany(t *testing.T) {
	assert.Empty(t, InferEmails("", "Acme"))
	assert.Empty(t, InferEmails("Jane Doe", ""))
}

func TestNameFromTitle(t *testing.T) {
	assert.Equal(t, "Jane Doe", NameFromTitle("Jane Doe - Software Engineer | LinkedIn"))
	assert.Equal(t, "Bob", NameFromTitle("Bob | GitHub"))
	assert.Equal(t, "Plain Title", NameFromTitle("Plain Title"))
}

func TestCompanyFrom(t *testing.T) {
	assert.Equal(t, "Acme", CompanyFrom("Senior Engineer at Acme, building things"))
	assert.Equal(t, "", CompanyFrom("no employer mentioned here"))
}

func TestJobTitleFrom(t *testing.T) {
	assert.Equal(t, "Software Engineer", JobTitleFrom("Jane is a Software Engineer in Berlin"))
	assert.NotEmpty(t, JobTitleFrom("works as Product Manager at Acme"))
	assert.Equal(t, "", JobTitleFrom("loves hiking and photography"))
}
