package knowledge

import "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"

type seedDocument struct {
	content      string
	language     entity.Language
	documentType string
	section      string
	keywords     []string
}

// seedCorpus is ingested into an empty store. Every concept has an English
// and a Hindi version.
var seedCorpus = []seedDocument{
	{
		content:      "GEC-2015 classifies groundwater assessment units into four categories: Safe (stage of development <70% and declining trend <0.1m/year), Semi-Critical (70-90% development OR declining trend 0.1-0.5m/year), Critical (90-100% development OR declining trend 0.5-1.0m/year), and Over-Exploited (>100% development OR declining trend >1.0m/year).",
		language:     entity.LanguageEnglish,
		documentType: "gec2015",
		section:      "classification",
		keywords:     []string{"classification", "categories", "safe", "critical", "over-exploited", "semi-critical"},
	},
	{
		content:      "GEC-2015 भूजल मूल्यांकन इकाइयों को चार श्रेणियों में वर्गीकृत करता है: सुरक्षित (विकास का चरण <70% और गिरावट की प्रवृत्ति <0.1मी/वर्ष), अर्ध-महत्वपूर्ण (70-90% विकास या गिरावट 0.1-0.5मी/वर्ष), महत्वपूर्ण (90-100% विकास या गिरावट 0.5-1.0मी/वर्ष), और अति-दोहित (>100% विकास या गिरावट >1.0मी/वर्ष)।",
		language:     entity.LanguageHindi,
		documentType: "gec2015",
		section:      "classification",
		keywords:     []string{"वर्गीकरण", "श्रेणी", "सुरक्षित", "महत्वपूर्ण", "अति-दोहित", "अर्ध-महत्वपूर्ण"},
	},
	{
		content:      "IS 10500:2012 specifies water quality standards: TDS <500mg/L (acceptable <2000mg/L), Fluoride <1.0mg/L (max 1.5mg/L), Nitrate <45mg/L, pH 6.5-8.5, Chloride <250mg/L. For irrigation, TDS up to 3000mg/L may be acceptable depending on crop type and soil conditions.",
		language:     entity.LanguageEnglish,
		documentType: "standards",
		section:      "water_quality",
		keywords:     []string{"water quality", "standards", "TDS", "fluoride", "nitrate", "pH", "irrigation"},
	},
	{
		content:      "IS 10500:2012 जल गुणवत्ता मानक निर्दिष्ट करता है: TDS <500mg/L (स्वीकार्य <2000mg/L), फ्लोराइड <1.0mg/L (अधिकतम 1.5mg/L), नाइट्रेट <45mg/L, pH 6.5-8.5, क्लोराइड <250mg/L। सिंचाई के लिए, फसल के प्रकार और मिट्टी की स्थिति के आधार पर 3000mg/L तक TDS स्वीकार्य हो सकता है।",
		language:     entity.LanguageHindi,
		documentType: "standards",
		section:      "water_quality",
		keywords:     []string{"जल गुणवत्ता", "मानक", "TDS", "फ्लोराइड", "नाइट्रेट", "pH", "सिंचाई"},
	},
	{
		content:      "Borewell construction guidelines: Minimum 100m spacing between borewells, proper casing installation, NOC from State Groundwater Authority required, depth should not exceed twice the static water level, regular water level monitoring mandatory, avoid drilling in over-exploited areas without permission.",
		language:     entity.LanguageEnglish,
		documentType: "guidelines",
		section:      "borewell_construction",
		keywords:     []string{"borewell", "construction", "guidelines", "spacing", "NOC", "depth", "monitoring"},
	},
	{
		content:      "बोरवेल निर्माण दिशानिर्देश: बोरवेल के बीच न्यूनतम 100मी दूरी, उचित केसिंग स्थापना, राज्य भूजल प्राधिकरण से NOC आवश्यक, गहराई स्थिर जल स्तर के दोगुने से अधिक नहीं होनी चाहिए, नियमित जल स्तर निगरानी अनिवार्य, बिना अनुमति अति-दोहित क्षेत्रों में ड्रिलिंग से बचें।",
		language:     entity.LanguageHindi,
		documentType: "guidelines",
		section:      "borewell_construction",
		keywords:     []string{"बोरवेल", "निर्माण", "दिशानिर्देश", "दूरी", "NOC", "गहराई", "निगरानी"},
	},
	{
		content:      "Groundwater recharge methods include: Check dams, percolation tanks, recharge wells/shafts, roof-top rainwater harvesting, contour bunding, farm ponds. Effectiveness depends on geology: 15-25% in hard rock areas, 10-20% in alluvial areas. Monsoon recharge contributes 60-80% of annual recharge.",
		language:     entity.LanguageEnglish,
		documentType: "guidelines",
		section:      "groundwater_recharge",
		keywords:     []string{"recharge", "rainwater harvesting", "check dams", "percolation", "monsoon", "effectiveness"},
	},
	{
		content:      "भूजल रिचार्ज के तरीकों में शामिल हैं: चेक डैम, पारगम्यता टैंक, रिचार्ज कुएं/शाफ्ट, छत-टॉप वर्षा जल संचयन, कंटूर बंडिंग, फार्म तालाब। प्रभावशीलता भूविज्ञान पर निर्भर करती है: हार्ड रॉक क्षेत्रों में 15-25%, जलोढ़ क्षेत्रों में 10-20%। मानसून रिचार्ज वार्षिक रिचार्ज का 60-80% योगदान देता है।",
		language:     entity.LanguageHindi,
		documentType: "guidelines",
		section:      "groundwater_recharge",
		keywords:     []string{"रिचार्ज", "वर्षा जल संचयन", "चेक डैम", "पारगम्यता", "मानसून", "प्रभावशीलता"},
	},
}
