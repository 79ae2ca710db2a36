package mailutil

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type Config struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

func (c Config) Enabled() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.To) > 0
}

// NewReport builds a mail carrying `text` in its body and the file at
// `attachment` attached, an empty `attachment` attaches nothing.
func NewReport(c Config, subject, text, attachment string) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("apiprobe <%s>", c.EmailAddress)
	mail.To = c.To
	mail.Subject = subject
	mail.Text = []byte(text)

	if attachment != "" {
		_, err := mail.AttachFile(attachment)
		if err != nil {
			return nil, err
		}
	}
	return mail, nil
}

func Send(c Config, mail *email.Email) error {
	addr := fmt.Sprintf("%s:%d", c.Server, c.Port)
	err := mail.Send(addr, smtp.PlainAuth("", c.EmailAddress, c.Password, c.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}
