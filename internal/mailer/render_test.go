package mailer_test

import (
	"strings"
	"testing"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"
	"github.com/gauravsaxena1997/punit-portfolio/internal/mailer"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML_EscapesUserInput(t *testing.T) {
	body, err := mailer.RenderHTML(contact.Submission{
		Name:    `Tom & "Jerry"`,
		Email:   "tom@example.com",
		Message: `<script>alert('x')</script>`,
	})
	require.NoError(t, err)

	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;")
	require.Contains(t, body, "Tom &amp; &#34;Jerry&#34;")
	require.Contains(t, body, ">tom@example.com</a>")
	require.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
}

func TestRenderText(t *testing.T) {
	text := mailer.RenderText(contact.Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Line one\n<b>raw</b>",
	})

	require.True(t, strings.HasPrefix(text, "New Contact Form Submission\n"))
	require.Contains(t, text, "From: Ada\nEmail: ada@example.com\n")
	require.Contains(t, text, "Message:\nLine one\n<b>raw</b>\n")
	require.True(t, strings.HasSuffix(text, "This email was sent from your portfolio contact form."))
}
