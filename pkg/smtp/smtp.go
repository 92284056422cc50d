package smtp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/studorg/membership-service/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Client is the outgoing mail client.
type Client struct {
	dialer *gomail.Dialer
}

func NewClient(dialer *gomail.Dialer) *Client {
	return &Client{dialer: dialer}
}

// SendConfirmationEmail sends the sign-in code.
func (c *Client) SendConfirmationEmail(to string, code string) {
	c.send(to, "Your sign-in code",
		fmt.Sprintf("Your sign-in code is %s. It expires in 10 minutes.", code))
}

// SendDecisionEmail notifies an applicant about the review outcome.
func (c *Client) SendDecisionEmail(to string, applicationType string, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.send(to, "Your application was reviewed",
		fmt.Sprintf("Your %s application was %s.", applicationType, outcome))
}

func (c *Client) send(to, subject, body string) {
	msg := gomail.NewMessage()

	domain := viper.GetString("service.smtp.domain")
	messageID := generateMessageID(domain)

	msg.SetHeader("Message-ID", messageID)
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", viper.GetString("service.smtp.email"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := c.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error(err)
		return
	}

	logger.Log.Info("Email successfully sent")
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
