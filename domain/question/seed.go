package question

// SeedQuestions is the fixed question catalog. Seeding upserts by
// (type, topic), so repeated runs never duplicate entries.
func SeedQuestions() []Question {
	return []Question{
		{
			Topic: TopicSleep,
			Type:  TypeRating,
			Label: "How was your sleep last night?",
			Tags:  []string{TagPreSession, TagHealth},
		},
		{
			Topic: TopicEnergy,
			Type:  TypeRating,
			Label: "How is your energy level today?",
			Tags:  []string{TagPreSession, TagHealth},
		},
		{
			Topic: TopicAnxiety,
			Type:  TypeRating,
			Label: "How is your anxiety level today?",
			Tags:  []string{TagPreSession, TagHealth},
		},
		{
			Topic: TopicDizziness,
			Type:  TypeYesNo,
			Label: "Dizziness",
			Tags:  []string{TagPostSession},
		},
		{
			Topic: TopicNausea,
			Type:  TypeYesNo,
			Label: "Nausea",
			Tags:  []string{TagPostSession, TagNegativeEffect},
		},
		{
			Topic: TopicTunnelVision,
			Type:  TypeYesNo,
			Label: "Tunnel vision",
			Tags:  []string{TagPostSession, TagNegativeEffect},
		},
		{
			Topic: TopicHearingSensitive,
			Type:  TypeYesNo,
			Label: "Unpleasant increase in hearing sensitivity",
			Tags:  []string{TagPostSession, TagNegativeEffect},
		},
		{
			Topic: TopicTremblingBody,
			Type:  TypeYesNo,
			Label: "Shaking or trembling in any part of the body",
			Tags:  []string{TagPostSession, TagNegativeEffect},
		},
		{
			Topic: TopicSeparateThought,
			Type:  TypeYesNo,
			Label: "Inner separation from thoughts",
			Tags:  []string{TagPostSession, TagPositiveEffect},
		},
		{
			Topic: TopicMindQuieter,
			Type:  TypeYesNo,
			Label: "Feeling as if your mind get quieter",
			Tags:  []string{TagPostSession, TagPositiveEffect},
		},
		{
			Topic: TopicAwarenessBody,
			Type:  TypeYesNo,
			Label: "Increased awareness of your body",
			Tags:  []string{TagPostSession, TagPositiveEffect},
		},
	}
}

// SeedTopics lists the topic lookup catalog.
func SeedTopics() []TopicEntry {
	return []TopicEntry{
		{Key: string(TopicSleep), Description: "Sleep"},
		{Key: string(TopicEnergy), Description: "Energy"},
		{Key: string(TopicAnxiety), Description: "Anxiety"},
		{Key: string(TopicDizziness), Description: "Dizziness"},
		{Key: string(TopicNausea), Description: "Nausea"},
		{Key: string(TopicTunnelVision), Description: "Tunnel vision"},
		{Key: string(TopicHearingSensitive), Description: "Unpleasant hearing sensitive"},
		{Key: string(TopicTremblingBody), Description: "Trembling body"},
		{Key: string(TopicSeparateThought), Description: "Seperation thought"},
		{Key: string(TopicMindQuieter), Description: "Mind quieter"},
		{Key: string(TopicAwarenessBody), Description: "Awareness body"},
	}
}

// SeedTypes lists the type lookup catalog.
func SeedTypes() []TypeEntry {
	return []TypeEntry{
		{Key: string(TypeYesNo), Description: "Yes / No"},
		{Key: string(TypeRating), Description: "Rating"},
	}
}
