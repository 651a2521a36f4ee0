package bulletin

import "time"

// vocabulary is what an era adds on top of the previous one. Labels are
// stored normalized. New variants observed in the field are appended here.
type vocabulary struct {
	countries          map[CountryCategory][]string
	family             map[VisaCategory][]string
	employment         map[VisaCategory][]string
	employmentPrefixes []prefixRule
}

type era struct {
	name  string
	since Issue
	adds  vocabulary
}

var eras = []era{
	{
		name:  "original",
		since: FirstIssue,
		adds: vocabulary{
			countries: map[CountryCategory][]string{
				India:       {"india", "in"},
				China:       {"china", "china-mainland born", "china- mainland born", "china - mainland born", "ch"},
				Mexico:      {"mexico", "me"},
				Philippines: {"philippines", "philip-pines", "phillipines", "philipp-ines", "ph"},
				RestOfWorld: {
					"all chargeability areas except those listed",
					"all chargeability areas except hose listed",
					"all chargability area except those listed",
					"all charge- ability areas except those listed",
					"all charge ability areas except those listed",
				},
			},
			family: map[VisaCategory][]string{
				F1:  {"1st"},
				F2A: {"2a", "2a*"},
				F2B: {"2b"},
				F3:  {"3rd"},
				F4:  {"4th", "4rd"},
			},
			employment: map[VisaCategory][]string{
				EB1:         {"1st"},
				EB2:         {"2nd"},
				EB3:         {"3rd"},
				EBScheduleA: {"schedule a workers"},
				EBOther:     {"other workers", "other worker", "other workers*"},
				EB4:         {"4th"},
				EBReligious: {"certain religious workers", "certain religiuos workers"},
				EB5:         {"5th"},
			},
			employmentPrefixes: []prefixRule{
				{"5th targeted employmentareas", EB5TargetedEmployment},
				{"5th targeted employment areas", EB5TargetedEmployment},
				{"targeted employment areas", EB5TargetedEmployment},
				{"targeted employ- ment areas", EB5TargetedEmployment},
				{"targeted employ-ment areas", EB5TargetedEmployment},
			},
		},
	},
	{
		name:  "fy2007",
		since: Issue{Year: 2006, Month: time.October},
		adds: vocabulary{
			family: map[VisaCategory][]string{
				F1:  {"f1"},
				F2A: {"f2a", "f2a*"},
				F2B: {"f2b"},
				F3:  {"f3"},
				F4:  {"f4"},
			},
			employment: map[VisaCategory][]string{
				EBIraqiAfghaniTranslators: {"iraqi & afghani translators"},
			},
			employmentPrefixes: []prefixRule{
				{"5th pilot programs", EB5PilotPrograms},
				{"5th pilot progams", EB5PilotPrograms},
			},
		},
	},
	{
		name:  "fy2016",
		since: Issue{Year: 2015, Month: time.October},
		adds: vocabulary{
			countries: map[CountryCategory][]string{
				ElSalvadorGuatemalaHonduras: {"el salvador guatemala honduras"},
				Vietnam:                     {"vietnam"},
			},
			employmentPrefixes: []prefixRule{
				{"5th non-regional center", EB5NonRegionalCenter},
				{"5th regional center", EB5RegionalCenter},
			},
		},
	},
	{
		name:  "eb5-reform",
		since: Issue{Year: 2022, Month: time.April},
		adds: vocabulary{
			employmentPrefixes: []prefixRule{
				{"5th unreserved", EB5Unreserved},
				{"5th set aside: rural", EB5Rural},
				{"5th set aside: (rural", EB5Rural},
				{"5th set aside: high unemployment", EB5HighUnemployment},
				{"5th set aside: (high unemployment", EB5HighUnemployment},
				{"5th set aside: infrastructure", EB5Infrastructure},
				{"5th set aside: (infrastructure", EB5Infrastructure},
			},
		},
	},
	{
		name:  "fy2024",
		since: Issue{Year: 2023, Month: time.October},
		adds: vocabulary{
			countries: map[CountryCategory][]string{
				DominicanRepublic: {"dominican republic"},
			},
		},
	},
}

var rulesets = buildRulesets(eras)

// buildRulesets folds each era's additions into a copy of the previous ruleset.
func buildRulesets(eras []era) []*Ruleset {
	out := make([]*Ruleset, 0, len(eras))
	prev := &Ruleset{
		countries:  map[string]CountryCategory{},
		family:     map[string]VisaCategory{},
		employment: map[string]VisaCategory{},
	}

	for _, e := range eras {
		r := &Ruleset{
			name:               e.name,
			since:              e.since,
			countries:          copyMap(prev.countries),
			family:             copyMap(prev.family),
			employment:         copyMap(prev.employment),
			employmentPrefixes: append([]prefixRule(nil), prev.employmentPrefixes...),
		}
		for c, labels := range e.adds.countries {
			for _, l := range labels {
				r.countries[l] = c
			}
		}
		for c, labels := range e.adds.family {
			for _, l := range labels {
				r.family[l] = c
			}
		}
		for c, labels := range e.adds.employment {
			for _, l := range labels {
				r.employment[l] = c
			}
		}
		r.employmentPrefixes = append(r.employmentPrefixes, e.adds.employmentPrefixes...)

		out = append(out, r)
		prev = r
	}

	return out
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
