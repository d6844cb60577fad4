package bot

import "fmt"

const (
	textStartTemplate = "👋 Hello %s!\n" +
		"I'm QR Code Bot 🤖\n" +
		"📌 What I can do:\n" +
		"• Generate QR codes from text/links\n" +
		"• Read QR codes from images\n" +
		"Commands:\n" +
		"/help - See how to use\n" +
		"/generate - Create QR code\n" +
		"/scan - Read QR from image\n" +
		"/batchqr - Generate multiple QR codes from a list"

	TextHelp = "🤖 QR Code Bot Commands:\n\n" +
		"Basic Commands:\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n\n" +
		"QR Code Operations:\n" +
		"/generate - Generate a QR code\n" +
		"/scan - Scan QR code from image\n" +
		"/batchqr - Generate multiple QR codes from a list\n\n" +
		"How to use:\n" +
		"1. Generate QR: Send /generate then enter text/URL\n" +
		"2. Scan QR: Send /scan then upload an image containing QR code\n" +
		"3. Batch QR: Send /batchqr then enter multiple texts/URLs\n\n" +
		"Features:\n" +
		"• Supports URLs, text, contact info, WiFi credentials\n" +
		"• Customizable QR colors\n" +
		"• Batch QR generation\n"

	TextGeneratePrompt = "✨ QR Code Generator\n\n" +
		"Please send me the text or URL you want to encode in the QR code.\n\n" +
		"📝 Examples:\n" +
		"• https://example.com\n" +
		"• Your contact information\n" +
		"• WiFi: WPA2;SSID;Password\n" +
		"• Plain text message"

	TextScanPrompt = "📸 QR Code Scanner\n\n" +
		"Please send me an image containing a QR code.\n\n" +
		"📌 Tips:\n" +
		"• Ensure good lighting\n" +
		"• QR code should be clear and centered\n" +
		"• Send as photo (not as file)"

	TextBatchUsage = "📦 Batch QR Generator\n\n" +
		"Usage: /batchqr text1, text2, text3\n\n" +
		"Example: /batchqr https://google.com, Hello World, WIFI:S:MyNetwork;T:WPA;P:mypassword;"

	TextBatchLimit     = "⚠️ Please limit to 5 QR codes at a time."
	TextGenerateError  = "❌ Error generating QR code. Please try again."
	TextNotFound       = "❌ No QR code found in the image."
	TextScanError      = "❌ Error scanning QR code. Please try again."
	TextProcessError   = "❌ Error processing image. Please try again."
	TextGenericError   = "❌ An error occurred. Please try again later."
	TextRequestExpired = "⌛ This request has expired. Send /generate again."
	TextRateLimited    = "⏳ Too many requests, slow down a little."
)

// TextStart greets the user by first name.
func TextStart(firstName string) string {
	return fmt.Sprintf(textStartTemplate, firstName)
}

func textColorPrompt(preview string) string {
	return "📝 Text to encode:\n" + preview + "\n\nChoose QR code color:"
}

func textGenerating(color string) string {
	return fmt.Sprintf("🎨 Generating %s QR code...", color)
}

func textGenerated(content, colorTitle string) string {
	return "✅ QR Code Generated!\n\nContent: " + content + "\nColor: " + colorTitle
}

func textDetected(formatted string) string {
	return "✅ QR Code Detected!\n\n" + formatted
}

func textBatchStart(n int) string {
	return fmt.Sprintf("Generating %d QR codes...", n)
}

func textBatchCaption(i int, preview string) string {
	return fmt.Sprintf("QR #%d: %s", i, preview)
}

func textBatchEntryError(i int) string {
	return fmt.Sprintf("❌ Could not generate QR #%d.", i)
}
