package catalog

// Default returns the built-in catalog. Bronchitis and Arthritis carry no
// display metadata and are served with fallback text.
func Default() Catalog {
	symptoms, err := NewSymptomCatalog([]SymptomEntry{
		{Name: "cough", Conditions: []string{"Flu", "Pneumonia", "Bronchitis", "Common Cold", "COVID-19", "Asthma"}},
		{Name: "fever", Conditions: []string{"Flu", "Pneumonia", "COVID-19"}},
		{Name: "headache", Conditions: []string{"Migraine", "Flu", "COVID-19"}},
		{Name: "fatigue", Conditions: []string{"Flu", "COVID-19", "Pneumonia"}},
		{Name: "joint pain", Conditions: []string{"Arthritis", "Flu"}},
		{Name: "shortness of breath", Conditions: []string{"Asthma", "Pneumonia", "COVID-19"}},
		{Name: "sneezing", Conditions: []string{"Common Cold", "Allergies"}},
		{Name: "nausea", Conditions: []string{"Migraine", "Flu"}},
		{Name: "chest pain", Conditions: []string{"Pneumonia", "Asthma"}},
	})
	if err != nil {
		panic(err)
	}

	return Catalog{
		Symptoms: symptoms,
		Info: ConditionInfo{
			"Flu": {
				Description: "A contagious respiratory illness caused by influenza viruses, causing fever, cough, sore throat, and fatigue.",
				Treatment:   "Rest, fluids, antiviral medications if prescribed.",
				Advice:      "See a doctor if fever is high or symptoms worsen.",
			},
			"Migraine": {
				Description: "A neurological condition characterized by intense, throbbing headaches, often with nausea or sensitivity to light.",
				Treatment:   "Pain relief medications, rest in a quiet dark room, hydration.",
				Advice:      "Consult a doctor if migraines are frequent or severe.",
			},
			"Pneumonia": {
				Description: "Infection that inflames the air sacs in one or both lungs, causing cough, fever, and difficulty breathing.",
				Treatment:   "Antibiotics if bacterial, rest, fluids.",
				Advice:      "Seek immediate medical attention if breathing is difficult.",
			},
			"Common Cold": {
				Description: "A viral infection of the upper respiratory tract causing sneezing, runny nose, and mild cough.",
				Treatment:   "Rest, fluids, over-the-counter remedies.",
				Advice:      "See a doctor if symptoms persist or worsen.",
			},
			"COVID-19": {
				Description: "A viral respiratory infection caused by SARS-CoV-2.",
				Treatment:   "Rest, fluids, symptom management, isolation.",
				Advice:      "Seek medical care if severe symptoms occur.",
			},
			"Asthma": {
				Description: "A chronic condition causing episodes of wheezing, shortness of breath, and coughing.",
				Treatment:   "Inhalers, avoiding triggers, medications.",
				Advice:      "Consult a doctor for proper management.",
			},
			"Allergies": {
				Description: "Immune system reaction to substances like pollen, dust, or certain foods.",
				Treatment:   "Antihistamines, avoiding triggers.",
				Advice:      "Consult a doctor if reactions are severe or frequent.",
			},
		},
	}
}
