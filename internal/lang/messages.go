package lang

type MessageID string

const (
	WelcomeMsgID          MessageID = "welcome"
	HelpMsgID             MessageID = "help"
	YourIDMsgID           MessageID = "your_id"
	NotAuthorizedMsgID    MessageID = "not_authorized"
	InvalidLinkMsgID      MessageID = "invalid_link"
	ProcessingMsgID       MessageID = "processing"
	ExtractingMsgID       MessageID = "extracting"
	DownloadingVideoMsgID MessageID = "downloading_video"
	DownloadFailedMsgID   MessageID = "download_failed"
	HTTPErrorMsgID        MessageID = "http_error"
	NoMediaFoundMsgID     MessageID = "no_media_found"
	VideoTimeoutMsgID     MessageID = "video_timeout"

	ProgressDownloadMsgID  MessageID = "progress_download"
	ProgressVideoMsgID     MessageID = "progress_video"
	ProgressUploadMsgID    MessageID = "progress_upload"
	ProgressWithTotalMsgID MessageID = "progress_with_total"
	ProgressNoTotalMsgID   MessageID = "progress_no_total"

	BridgeSendingMsgID        MessageID = "bridge_sending"
	BridgePermissionMsgID     MessageID = "bridge_permission"
	BridgeFailedFallbackMsgID MessageID = "bridge_failed_fallback"
	TooLargeNoBridgeMsgID     MessageID = "too_large_no_bridge"
	TooLargeExhaustedMsgID    MessageID = "too_large_exhausted"
	UploadFailedMsgID         MessageID = "upload_failed"

	CaptionDeliveredMsgID   MessageID = "caption_delivered"
	CaptionDocFallbackMsgID MessageID = "caption_doc_fallback"
	CaptionBridgeMsgID      MessageID = "caption_bridge"

	RedditAuthLinkMsgID      MessageID = "reddit_auth_link"
	RedditNotConfiguredMsgID MessageID = "reddit_not_configured"
	RedditLinkedMsgID        MessageID = "reddit_linked"
)

var messages = map[MessageID]map[string]string{
	WelcomeMsgID: {
		"en": "🤖 Hi! I am the file and video download bot.\n\nSend me a direct download link or a video page link and I will download it and send it back to you.\n\n🎬 Video sites supported\n📁 Direct download links supported\n\nUse /help for details.",
		"fa": "🤖 سلام! من ربات دانلود فایل و ویدیو هستم\n\nلینک مستقیم دانلود فایل یا لینک ویدیو خودتون رو برام بفرستید تا براتون دانلود کنم و ارسال کنم.\n\n🎬 پشتیبانی از سایت‌های ویدیو\n📁 پشتیبانی از لینک‌های مستقیم دانلود\n\nبرای راهنمایی /help رو بزنید.",
	},
	HelpMsgID: {
		"en": "📖 How to use:\n\n1️⃣ Send a direct download link or a video page link\n2️⃣ I download the file or video\n3️⃣ I send the file straight back to you\n\nExamples:\nhttps://example.com/file.pdf\nhttps://www.youtube.com/watch?v=...",
		"fa": "📖 راهنمای استفاده:\n\n1️⃣ لینک مستقیم دانلود فایل یا لینک ویدیو رو برام بفرست\n2️⃣ من فایل/ویدیو رو دانلود می‌کنم\n3️⃣ فایل رو مستقیماً براتون ارسال می‌کنم\n\nمثال:\nhttps://example.com/file.pdf\nhttps://www.youtube.com/watch?v=...",
	},
	YourIDMsgID: {
		"en": "🆔 Your user ID: %d",
		"fa": "🆔 شناسه کاربری شما: %d",
	},
	NotAuthorizedMsgID: {
		"en": "🚫 You are not authorized.\nYour ID: %d\nAsk the admin to add you to the allow-list or temporarily enable ALLOW_ALL.",
		"fa": "🚫 دسترسی شما مجاز نیست.\nشناسه شما: %d\nاز ادمین بخواهید شما را به لیست مجاز اضافه کند یا موقتاً ALLOW_ALL را فعال کند.",
	},
	InvalidLinkMsgID: {
		"en": "❌ Invalid link! Please send a direct download link or a video link.",
		"fa": "❌ لینک نامعتبر است! لطفاً یک لینک مستقیم دانلود یا لینک ویدیو ارسال کنید.",
	},
	ProcessingMsgID: {
		"en": "⏳ Downloading file...",
		"fa": "⏳ در حال دانلود فایل...",
	},
	ExtractingMsgID: {
		"en": "🔍 Extracting video link from %s...",
		"fa": "🔍 در حال استخراج لینک ویدیو از %s...",
	},
	DownloadingVideoMsgID: {
		"en": "⏬ Downloading video...",
		"fa": "⏬ در حال دانلود ویدیو...",
	},
	DownloadFailedMsgID: {
		"en": "❌ Error downloading file: %s",
		"fa": "❌ خطا در دانلود فایل: %s",
	},
	HTTPErrorMsgID: {
		"en": "HTTP %d: the file could not be downloaded",
		"fa": "HTTP %d: نمی‌توان فایل را دانلود کرد",
	},
	NoMediaFoundMsgID: {
		"en": "no video link was found on the page",
		"fa": "لینک ویدیو در صفحه پیدا نشد",
	},
	VideoTimeoutMsgID: {
		"en": "video download took too long (%s)",
		"fa": "دانلود ویدیو بیش از حد طول کشید (%s)",
	},
	ProgressDownloadMsgID: {
		"en": "📥 Download",
		"fa": "📥 دانلود",
	},
	ProgressVideoMsgID: {
		"en": "📹 Video download",
		"fa": "📹 دانلود ویدیو",
	},
	ProgressUploadMsgID: {
		"en": "📤 Upload",
		"fa": "📤 آپلود",
	},
	ProgressWithTotalMsgID: {
		"en": "%s in progress...\n\n%s %.1f%%\n\n📊 Size: %s / %s\n🚀 Speed: %s\n\nPlease wait...",
		"fa": "%s در حال انجام...\n\n%s %.1f%%\n\n📊 حجم: %s / %s\n🚀 سرعت: %s\n\nلطفاً صبر کنید...",
	},
	ProgressNoTotalMsgID: {
		"en": "%s in progress...\n\n📊 Downloaded: %s\n🚀 Speed: %s\n\nPlease wait...",
		"fa": "%s در حال انجام...\n\n📊 دانلود شده: %s\n🚀 سرعت: %s\n\nلطفاً صبر کنید...",
	},
	BridgeSendingMsgID: {
		"en": "🚀 Sending through the user account (no 50MB limit)...",
		"fa": "🚀 در حال ارسال از طریق حساب کاربری (بدون محدودیت 50MB)...",
	},
	BridgePermissionMsgID: {
		"en": "⚠️ The bot cannot access the bridge channel. Make the bot an admin of the private channel and try again.",
		"fa": "⚠️ دسترسی ربات به کانال Bridge مشکل دارد. ربات را ادمین کانال خصوصی قرار دهید و دوباره تلاش کنید.",
	},
	BridgeFailedFallbackMsgID: {
		"en": "⚠️ Sending through the bridge failed: %s\nTrying direct upload through the Bot API...",
		"fa": "⚠️ ارسال از طریق Bridge با خطا مواجه شد: %s\nتلاش برای ارسال مستقیم از طریق Bot API...",
	},
	TooLargeNoBridgeMsgID: {
		"en": "⚠️ The cloud Bot API has a 50MB limit. To send large files (up to 2GB), run a Local Bot API Server and set BOT_API_ENDPOINT, or configure a bridge channel.",
		"fa": "⚠️ محدودیت 50MB در Bot API ابری. برای ارسال فایل‌های بزرگ (تا 2GB) باید Local Bot API Server را راه‌اندازی کنید و BOT_API_ENDPOINT را تنظیم کنید، یا کانال Bridge را پیکربندی کنید.",
	},
	TooLargeExhaustedMsgID: {
		"en": "⚠️ The file is too large: both the bridge and the direct upload failed on the size limit.",
		"fa": "⚠️ حجم فایل بیش از حد است: ارسال از طریق Bridge و ارسال مستقیم هر دو به دلیل محدودیت حجم ناموفق بود.",
	},
	UploadFailedMsgID: {
		"en": "❌ Error sending file: %s",
		"fa": "❌ خطا در ارسال فایل: %s",
	},
	CaptionDeliveredMsgID: {
		"en": "✅ File downloaded successfully!\n📁 File name: %s\n📊 Size: %s",
		"fa": "✅ فایل با موفقیت دانلود شد!\n📁 نام فایل: %s\n📊 حجم: %s",
	},
	CaptionDocFallbackMsgID: {
		"en": "📄 File sent as a document (large size)\n📁 File name: %s\n📊 Size: %s",
		"fa": "📄 فایل به صورت سند ارسال شد (حجم بزرگ)\n📁 نام فایل: %s\n📊 حجم: %s",
	},
	CaptionBridgeMsgID: {
		"en": "✅ File uploaded (Bridge)\n📁 %s\n📊 %s",
		"fa": "✅ فایل آپلود شد (Bridge)\n📁 %s\n📊 %s",
	},
	RedditAuthLinkMsgID: {
		"en": "🔐 Click the link below to connect your Reddit account:\n%s",
		"fa": "🔐 برای اتصال حساب Reddit خود روی لینک زیر کلیک کنید:\n%s",
	},
	RedditNotConfiguredMsgID: {
		"en": "⚠️ Reddit authentication is not configured on this bot.",
		"fa": "⚠️ احراز هویت Reddit روی این ربات پیکربندی نشده است.",
	},
	RedditLinkedMsgID: {
		"en": "✅ Your Reddit account is now linked.",
		"fa": "✅ حساب Reddit شما با موفقیت متصل شد.",
	},
}
