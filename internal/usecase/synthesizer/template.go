package synthesizer

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

const TemplateProviderName = "template"

// Topic is the template category a question falls into.
type Topic string

const (
	TopicWaterLevel Topic = "water_level"
	TopicBorewell   Topic = "borewell"
	TopicQuality    Topic = "quality"
	TopicRecharge   Topic = "recharge"
	TopicGeneral    Topic = "general"
)

var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicBorewell, []string{"borewell", "bore well", "tubewell", "drill", "बोरवेल", "ड्रिलिंग", "खुदाई", "नलकूप"}},
	{TopicQuality, []string{"quality", "tds", "fluoride", "nitrate", "arsenic", "drink", "potable", "गुणवत्ता", "फ्लोराइड", "पीने"}},
	{TopicRecharge, []string{"recharge", "rainwater", "harvest", "check dam", "रिचार्ज", "वर्षा जल", "संचयन"}},
	// "level" alone also appears in "fluoride level" or "TDS level", so it is matched last.
	{TopicWaterLevel, []string{"water level", "water table", "depth to water", "level", "जल स्तर", "जलस्तर", "स्तर"}},
}

// Classify picks the first topic whose keywords appear in the query.
func Classify(query string) Topic {
	q := strings.ToLower(query)
	for _, t := range topicKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(q, kw) {
				return t.topic
			}
		}
	}
	return TopicGeneral
}

// PhraseSelector chooses one of n equivalent phrasings.
type PhraseSelector interface {
	Pick(n int) int
}

// FirstPhrase always selects the first phrasing.
type FirstPhrase struct{}

func (FirstPhrase) Pick(n int) int { return 0 }

// RandomPhrase selects a phrasing at random. Safe for concurrent use.
type RandomPhrase struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPhrase seeds the selector; seed 0 uses the clock.
func NewRandomPhrase(seed int64) *RandomPhrase {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPhrase{rng: rand.New(rand.NewPCG(uint64(seed), 0x6a616c))}
}

func (r *RandomPhrase) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

type template struct {
	openings []string
	body     string
}

var templates = map[entity.Language]map[Topic]template{
	entity.LanguageEnglish: {
		TopicWaterLevel: {
			openings: []string{
				"To check the groundwater level in {location}:",
				"Here is how to monitor the groundwater level in {location}:",
			},
			body: "1. Use a water level indicator for accurate measurement\n" +
				"2. Monitor regularly, before and after the monsoon\n" +
				"3. Follow GEC-2015 guidelines for standardization\n" +
				"4. Compare with INGRES data for validation\n\n" +
				"Take recharge measures if levels are declining.",
		},
		TopicBorewell: {
			openings: []string{
				"For borewell drilling in {location}:",
				"Before drilling a borewell in {location}:",
			},
			body: "1. Conduct a hydrogeological survey\n" +
				"2. Perform a geophysical investigation\n" +
				"3. Study nearby well data\n" +
				"4. Obtain the NOC from the State Groundwater Authority\n\n" +
				"Keep at least 100 m between borewells and focus on fracture zones in hard rock areas.",
		},
		TopicQuality: {
			openings: []string{
				"Water quality guidance for {location}:",
				"To judge whether groundwater in {location} is safe:",
			},
			body: "1. Test TDS, fluoride, nitrate and pH at a certified lab\n" +
				"2. Drinking water limits (IS 10500:2012): TDS below 500 mg/L, fluoride below 1.0 mg/L, nitrate below 45 mg/L\n" +
				"3. Retest after the monsoon, when quality changes most\n\n" +
				"Regular testing is recommended to ensure safety for the intended use.",
		},
		TopicRecharge: {
			openings: []string{
				"Groundwater recharge options for {location}:",
				"To recharge groundwater in {location}:",
			},
			body: "1. Rooftop rainwater harvesting into recharge pits or wells\n" +
				"2. Check dams and percolation tanks on seasonal streams\n" +
				"3. Farm ponds and contour bunding on fields\n\n" +
				"Monsoon recharge contributes 60-80% of annual recharge; the method depends on local geology.",
		},
		TopicGeneral: {
			openings: []string{
				"jalBuddy is here to help with groundwater questions for {location}.",
				"I can help with groundwater questions for {location}.",
			},
			body: "Ask about water levels, water quality, borewell drilling or recharge methods, " +
				"and mention your district for local data.",
		},
	},
	entity.LanguageHindi: {
		TopicWaterLevel: {
			openings: []string{
				"{location} में भूजल स्तर की जांच के लिए:",
				"{location} में भूजल स्तर की निगरानी ऐसे करें:",
			},
			body: "1. वॉटर लेवल इंडिकेटर का उपयोग करें\n" +
				"2. मानसून से पहले और बाद में नियमित मॉनिटरिंग करें\n" +
				"3. GEC-2015 गाइडलाइन का पालन करें\n" +
				"4. INGRES डेटा से तुलना करें\n\n" +
				"स्तर गिरने पर तुरंत रिचार्ज के उपाय अपनाएं।",
		},
		TopicBorewell: {
			openings: []string{
				"{location} में बोरवेल ड्रिलिंग के लिए:",
				"{location} में बोरवेल खुदवाने से पहले:",
			},
			body: "1. हाइड्रो-जियोलॉजिकल सर्वे कराएं\n" +
				"2. भूभौतिकीय अध्ययन करें\n" +
				"3. पास के कुओं की जानकारी लें\n" +
				"4. राज्य भूजल प्राधिकरण से NOC प्राप्त करें\n\n" +
				"बोरवेल के बीच कम से कम 100 मीटर की दूरी रखें।",
		},
		TopicQuality: {
			openings: []string{
				"{location} के लिए जल गुणवत्ता सलाह:",
				"{location} का भूजल पीने योग्य है या नहीं, यह जानने के लिए:",
			},
			body: "1. प्रमाणित प्रयोगशाला में TDS, फ्लोराइड, नाइट्रेट और pH की जांच कराएं\n" +
				"2. पेयजल सीमा (IS 10500:2012): TDS 500 mg/L से कम, फ्लोराइड 1.0 mg/L से कम, नाइट्रेट 45 mg/L से कम\n\n" +
				"सुरक्षा के लिए नियमित परीक्षण की सलाह दी जाती है।",
		},
		TopicRecharge: {
			openings: []string{
				"{location} के लिए भूजल रिचार्ज के तरीके:",
				"{location} में भूजल रिचार्ज के लिए:",
			},
			body: "1. छत पर वर्षा जल संचयन\n" +
				"2. चेक डैम और पारगम्यता टैंक\n" +
				"3. फार्म तालाब और कंटूर बंडिंग\n\n" +
				"कार्यान्वयन स्थानीय भूवैज्ञानिक स्थितियों पर निर्भर करता है।",
		},
		TopicGeneral: {
			openings: []string{
				"jalBuddy {location} की भूजल संबंधी समस्याओं में आपकी मदद के लिए यहाँ है।",
				"मैं {location} के भूजल संबंधी प्रश्नों में आपकी मदद कर सकता हूं।",
			},
			body: "जल स्तर, जल गुणवत्ता, बोरवेल या रिचार्ज के बारे में पूछें और अपना जिला बताएं।",
		},
	},
}

var defaultLocation = map[entity.Language]string{
	entity.LanguageEnglish: "your area",
	entity.LanguageHindi:   "आपके क्षेत्र",
}

var _ Provider = &TemplateProvider{}

// TemplateProvider is the terminal step of the chain and always answers.
type TemplateProvider struct {
	phrases PhraseSelector
}

func NewTemplateProvider(phrases PhraseSelector) *TemplateProvider {
	if phrases == nil {
		phrases = FirstPhrase{}
	}
	return &TemplateProvider{phrases: phrases}
}

func (p *TemplateProvider) Name() string {
	return TemplateProviderName
}

func (p *TemplateProvider) Available() bool {
	return true
}

func (p *TemplateProvider) Generate(_ context.Context, req *entity.GenerateRequest) (*entity.Generation, error) {
	content := p.Render(req.Query, req.Language, req.Location, req.DataHighlight)
	return &entity.Generation{
		Content: content,
		Model:   TemplateProviderName,
		Tokens:  len(strings.Fields(content)),
	}, nil
}

// Render produces the templated answer. Apart from the phrasing choice the
// output depends only on its arguments.
func (p *TemplateProvider) Render(query string, lang entity.Language, location, highlight string) string {
	byTopic, ok := templates[lang]
	if !ok {
		lang = entity.LanguageEnglish
		byTopic = templates[lang]
	}

	if strings.TrimSpace(location) == "" {
		location = defaultLocation[lang]
	}

	t := byTopic[Classify(query)]
	opening := t.openings[p.phrases.Pick(len(t.openings))]

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(opening, "{location}", location))
	b.WriteString("\n\n")
	b.WriteString(t.body)
	if highlight != "" {
		b.WriteString("\n\n")
		b.WriteString(highlight)
	}

	return b.String()
}
