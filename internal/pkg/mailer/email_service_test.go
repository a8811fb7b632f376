package mailer

import (
	"testing"

	"ai-admissions-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestContactBody_EscapesVisitorInput(t *testing.T) {
	c := &entity.ContactRecord{
		Id:        3,
		Name:      "Jean <b>Dupont</b>",
		Email:     "jean@test.com",
		Phone:     "+33612345678",
		Program:   "Data Science",
		SessionId: "01234567",
	}

	body := ContactBody(c)
	assert.Contains(t, body, "Jean &lt;b&gt;Dupont&lt;/b&gt;")
	assert.Contains(t, body, "+33612345678")
	assert.Contains(t, body, "contact n° 3")
	assert.Contains(t, body, "<td>-</td>")

	assert.Equal(t, "Nouveau contact : Jean <b>Dupont</b> (Data Science)", ContactSubject(c))
}
