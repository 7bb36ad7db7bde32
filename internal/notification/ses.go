package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/LEULEX-404/Health-Tracker/pkg/config"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// SESSender delivers reminder emails through Amazon SES
type SESSender struct {
	client *ses.Client
	source string
	logger *logger.Logger
}

// NewSESSender creates an SES-backed sender using the default AWS credential
// chain.
func NewSESSender(ctx context.Context, cfg *config.EmailConfig, log *logger.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, types.NewExternalError("failed to load AWS configuration", err)
	}

	return &SESSender{
		client: ses.NewFromConfig(awsCfg),
		source: cfg.Source,
		logger: log,
	}, nil
}

// SendMealReminder sends one meal reminder email
func (s *SESSender) SendMealReminder(email, firstName string, notice *types.MealReminderNotice) error {
	subject := fmt.Sprintf("Meal Reminder: %s", notice.MealName)
	body := renderMealReminderBody(firstName, notice)

	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: aws.String(subject),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(s.source),
	}

	if _, err := s.client.SendEmail(context.TODO(), input); err != nil {
		return types.NewExternalError("failed to send reminder email", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"recipient": email,
		"meal":      notice.MealName,
	}).Info("Meal reminder email sent")
	return nil
}

// renderMealReminderBody builds the plain-text reminder email
func renderMealReminderBody(firstName string, notice *types.MealReminderNotice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", firstName)
	b.WriteString("This is a reminder for your scheduled meal:\n\n")
	fmt.Fprintf(&b, "Meal: %s\n", notice.MealName)
	fmt.Fprintf(&b, "Type: %s\n", notice.MealType)
	fmt.Fprintf(&b, "Scheduled Time: %s\n", notice.ScheduledTime.Format("Mon, 02 Jan 2006 15:04"))

	if len(notice.Items) > 0 {
		b.WriteString("\nItems:\n")
		for _, item := range notice.Items {
			unit := item.Unit
			if unit == "" {
				unit = "g"
			}
			fmt.Fprintf(&b, "  - %g %s %s\n", item.Quantity, unit, item.Name)
		}
	}

	b.WriteString("\nDon't forget to log your meal after you've eaten!\n")
	return b.String()
}
