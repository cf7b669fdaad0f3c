package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	addressStyle     = color.New(color.FgWhite)
	timestampStyle   = color.New(color.Faint)
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
	pendingStyle     = color.New(color.FgYellow)
	headerStyle      = color.New(color.Bold, color.FgHiWhite)
	networkHeader    = color.New(color.BgCyan, color.FgBlack, color.Bold)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// statusLabel renders VERIFIED / ALREADY_VERIFIED / FAILED as "Verified",
// "Already Verified" and "Failed"
func statusLabel(status models.VerificationStatus) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(string(status)), "_", " "))
}

func statusText(result *models.VerificationResult) string {
	if result == nil {
		return pendingStyle.Sprint("Unverified")
	}
	label := statusLabel(result.Status)
	if result.IsVerified() {
		return verifiedStyle.Sprint(label)
	}
	return notVerifiedStyle.Sprint(label)
}

func statusIcon(result *models.VerificationResult) string {
	switch {
	case result == nil:
		return "⏳"
	case result.IsVerified():
		return "✅"
	default:
		return "❌"
	}
}

func formatArgs(args []models.ConstructorArg) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Name + "=" + arg.Value
	}
	return strings.Join(parts, ", ")
}
