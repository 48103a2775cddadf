// Package i18n holds the static message catalog for the API's two supported
// languages. The catalog is compiled in and never mutated at runtime.
package i18n

const (
	LangEnglish = "en"
	LangUrdu    = "ur"

	DefaultLang = LangEnglish
)

var catalog = map[string]map[string]string{
	LangEnglish: {
		"bid.submitted":         "Your bid has been submitted",
		"bid.accepted":          "Congratulations! Your bid was accepted",
		"bid.rejected":          "Your bid was not selected this time",
		"bid.withdrawn":         "Your bid has been withdrawn",
		"bid.expired":           "Your bid has expired",
		"bid.new":               "A new bid was placed on your project",
		"bid.invited":           "You have been invited to bid on a project",
		"verification.approved": "Your company has been verified",
		"verification.rejected": "Your company verification was rejected",
		"milestone.completed":   "A milestone was marked as completed",
		"milestone.paid":        "A milestone payment was released",
		"negotiation.proposed":  "A new negotiation proposal was made on your bid",
	},
	LangUrdu: {
		"bid.submitted":         "آپ کی بولی جمع کر دی گئی ہے",
		"bid.accepted":          "مبارک ہو! آپ کی بولی قبول کر لی گئی",
		"bid.rejected":          "اس بار آپ کی بولی منتخب نہیں ہوئی",
		"bid.withdrawn":         "آپ کی بولی واپس لے لی گئی ہے",
		"bid.expired":           "آپ کی بولی کی میعاد ختم ہو گئی ہے",
		"bid.new":               "آپ کے پروجیکٹ پر ایک نئی بولی لگائی گئی ہے",
		"bid.invited":           "آپ کو ایک پروجیکٹ پر بولی دینے کی دعوت دی گئی ہے",
		"verification.approved": "آپ کی کمپنی کی تصدیق ہو گئی ہے",
		"verification.rejected": "آپ کی کمپنی کی تصدیق مسترد کر دی گئی",
		"milestone.completed":   "ایک سنگ میل مکمل ہونے کا نشان لگایا گیا",
		"milestone.paid":        "ایک سنگ میل کی ادائیگی جاری کر دی گئی",
		"negotiation.proposed":  "آپ کی بولی پر گفت و شنید کی نئی تجویز دی گئی ہے",
	},
}

// T resolves key in lang, falling back to English and finally to the key
// itself so a missing translation never blanks a message.
func T(lang, key string) string {
	if messages, ok := catalog[lang]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLang][key]; ok {
		return msg
	}

	return key
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}
