package rights

// StateInfo describes the recording and search law landscape for one US
// state, plus the numbers worth knowing during an encounter.
type StateInfo struct {
	Name               string `json:"name"`
	RecordingLaws      string `json:"recordingLaws"`
	PoliceRecording    string `json:"policeRecordingRights"`
	StopAndFrisk       string `json:"stopAndFrisk"`
	SearchRights       string `json:"searchRights"`
	EmergencyNumber    string `json:"emergencyNumber"`
	CivilRightsHotline string `json:"civilRightsHotline"`
}

// StateNames maps the supported two-letter jurisdiction codes to display
// names.
var StateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
}

var stateInfo = map[string]StateInfo{
	"CA": {
		Name:               "California",
		RecordingLaws:      "One-party consent state - you can record conversations you are part of",
		PoliceRecording:    "You have the right to record police in public spaces",
		StopAndFrisk:       "Police need reasonable suspicion of criminal activity",
		SearchRights:       "Police need a warrant, probable cause, or consent to search",
		EmergencyNumber:    "911",
		CivilRightsHotline: "1-800-884-1684",
	},
	"TX": {
		Name:               "Texas",
		RecordingLaws:      "One-party consent state - you can record conversations you are part of",
		PoliceRecording:    "You have the right to record police in public spaces",
		StopAndFrisk:       "Police need reasonable suspicion of criminal activity",
		SearchRights:       "Police need a warrant, probable cause, or consent to search",
		EmergencyNumber:    "911",
		CivilRightsHotline: "1-800-884-1684",
	},
	"NY": {
		Name:               "New York",
		RecordingLaws:      "One-party consent state - you can record conversations you are part of",
		PoliceRecording:    "You have the right to record police in public spaces",
		StopAndFrisk:       "Police can stop and frisk with reasonable suspicion",
		SearchRights:       "Police need a warrant, probable cause, or consent to search",
		EmergencyNumber:    "911",
		CivilRightsHotline: "1-800-884-1684",
	},
}

// InfoForState returns the legal info for a jurisdiction code, with a
// generic Fourth Amendment fallback for states without specific entries.
func InfoForState(code string) StateInfo {
	if info, ok := stateInfo[code]; ok {
		return info
	}
	name := StateNames[code]
	if name == "" {
		name = code
	}
	return StateInfo{
		Name:               name,
		RecordingLaws:      "Check your local laws regarding recording",
		PoliceRecording:    "Generally allowed in public spaces",
		StopAndFrisk:       "Varies by jurisdiction",
		SearchRights:       "Fourth Amendment protections apply",
		EmergencyNumber:    "911",
		CivilRightsHotline: "1-800-884-1684",
	}
}
