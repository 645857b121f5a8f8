// Package announcement composes, translates, synthesizes, and publishes
// station announcements.
package announcement

import (
	"fmt"
	"strings"

	"railsetu/pkg/model"
)

// Details are the facts a templated announcement is built from.
type Details struct {
	TrainNumber  string
	TrainName    string
	Platform     string
	Status       model.TrainStatus
	DelayMinutes int // only meaningful for StatusDelayed
}

// Validate checks that the details can fill the template for the status.
func (d Details) Validate() error {
	if strings.TrimSpace(d.TrainNumber) == "" {
		return fmt.Errorf("train number is required")
	}
	switch d.Status {
	case model.StatusArriving, model.StatusDeparting, model.StatusPlatformChange:
		if strings.TrimSpace(d.Platform) == "" {
			return fmt.Errorf("platform is required for %s announcements", d.Status)
		}
	case model.StatusDelayed:
		if d.DelayMinutes <= 0 {
			return fmt.Errorf("delay minutes are required for delayed announcements")
		}
	case model.StatusCancelled:
		// Train identity alone is enough.
	default:
		return fmt.Errorf("unknown train status: %q", d.Status)
	}
	return nil
}

// Compose renders the standard station phrasing for the details in the
// given language. Numbers stay as digits in every language; they are
// expanded digit by digit downstream by both TTS and the sign playlist.
func Compose(d Details, lang model.Language) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	if !lang.Valid() {
		return "", fmt.Errorf("unsupported language: %s", lang)
	}

	train := strings.TrimSpace(d.TrainNumber)
	if name := strings.TrimSpace(d.TrainName); name != "" {
		train += " " + name
	}

	switch lang {
	case model.LangHindi:
		return composeHindi(d, train), nil
	case model.LangMarathi:
		return composeMarathi(d, train), nil
	case model.LangGujarati:
		return composeGujarati(d, train), nil
	default:
		return composeEnglish(d, train), nil
	}
}

// ComposeAll renders the announcement in every given language.
func ComposeAll(d Details, langs []model.Language) (map[model.Language]string, error) {
	out := make(map[model.Language]string, len(langs))
	for _, lang := range langs {
		text, err := Compose(d, lang)
		if err != nil {
			return nil, err
		}
		out[lang] = text
	}
	return out, nil
}

func composeEnglish(d Details, train string) string {
	const attention = "May I have your attention please. "
	switch d.Status {
	case model.StatusArriving:
		return fmt.Sprintf("%sTrain number %s is arriving on platform number %s.", attention, train, d.Platform)
	case model.StatusDeparting:
		return fmt.Sprintf("%sTrain number %s will depart from platform number %s.", attention, train, d.Platform)
	case model.StatusDelayed:
		return fmt.Sprintf("%sTrain number %s is running late by %d minutes. The inconvenience caused is deeply regretted.", attention, train, d.DelayMinutes)
	case model.StatusPlatformChange:
		return fmt.Sprintf("%sTrain number %s will now arrive on platform number %s.", attention, train, d.Platform)
	default: // cancelled
		return fmt.Sprintf("%sTrain number %s has been cancelled today. The inconvenience caused is deeply regretted.", attention, train)
	}
}

func composeHindi(d Details, train string) string {
	const attention = "यात्रीगण कृपया ध्यान दें। "
	switch d.Status {
	case model.StatusArriving:
		return fmt.Sprintf("%sगाड़ी संख्या %s प्लेटफार्म क्रमांक %s पर आ रही है।", attention, train, d.Platform)
	case model.StatusDeparting:
		return fmt.Sprintf("%sगाड़ी संख्या %s प्लेटफार्म क्रमांक %s से प्रस्थान करेगी।", attention, train, d.Platform)
	case model.StatusDelayed:
		return fmt.Sprintf("%sगाड़ी संख्या %s निर्धारित समय से %d मिनट विलंब से चल रही है। यात्रियों को हुई असुविधा के लिए हमें खेद है।", attention, train, d.DelayMinutes)
	case model.StatusPlatformChange:
		return fmt.Sprintf("%sगाड़ी संख्या %s अब प्लेटफार्म क्रमांक %s पर आएगी।", attention, train, d.Platform)
	default:
		return fmt.Sprintf("%sगाड़ी संख्या %s आज रद्द कर दी गई है। यात्रियों को हुई असुविधा के लिए हमें खेद है।", attention, train)
	}
}

func composeMarathi(d Details, train string) string {
	const attention = "प्रवाशांनी कृपया लक्ष द्यावे। "
	switch d.Status {
	case model.StatusArriving:
		return fmt.Sprintf("%sगाडी क्रमांक %s फलाट क्रमांक %s वर येत आहे।", attention, train, d.Platform)
	case model.StatusDeparting:
		return fmt.Sprintf("%sगाडी क्रमांक %s फलाट क्रमांक %s वरून सुटेल।", attention, train, d.Platform)
	case model.StatusDelayed:
		return fmt.Sprintf("%sगाडी क्रमांक %s नियोजित वेळेपेक्षा %d मिनिटे उशिराने धावत आहे। प्रवाशांना झालेल्या गैरसोयीबद्दल आम्ही दिलगीर आहोत।", attention, train, d.DelayMinutes)
	case model.StatusPlatformChange:
		return fmt.Sprintf("%sगाडी क्रमांक %s आता फलाट क्रमांक %s वर येईल।", attention, train, d.Platform)
	default:
		return fmt.Sprintf("%sगाडी क्रमांक %s आज रद्द करण्यात आली आहे। प्रवाशांना झालेल्या गैरसोयीबद्दल आम्ही दिलगीर आहोत।", attention, train)
	}
}

func composeGujarati(d Details, train string) string {
	const attention = "મુસાફરો કૃપા કરીને ધ્યાન આપો। "
	switch d.Status {
	case model.StatusArriving:
		return fmt.Sprintf("%sટ્રેન નંબર %s પ્લેટફોર્મ નંબર %s પર આવી રહી છે।", attention, train, d.Platform)
	case model.StatusDeparting:
		return fmt.Sprintf("%sટ્રેન નંબર %s પ્લેટફોર્મ નંબર %s પરથી ઉપડશે।", attention, train, d.Platform)
	case model.StatusDelayed:
		return fmt.Sprintf("%sટ્રેન નંબર %s નિર્ધારિત સમય કરતાં %d મિનિટ મોડી ચાલી રહી છે। મુસાફરોને થયેલી અસુવિધા બદલ અમે દિલગીર છીએ।", attention, train, d.DelayMinutes)
	case model.StatusPlatformChange:
		return fmt.Sprintf("%sટ્રેન નંબર %s હવે પ્લેટફોર્મ નંબર %s પર આવશે।", attention, train, d.Platform)
	default:
		return fmt.Sprintf("%sટ્રેન નંબર %s આજે રદ કરવામાં આવી છે। મુસાફરોને થયેલી અસુવિધા બદલ અમે દિલગીર છીએ।", attention, train)
	}
}
