package assistant

import (
	"math/rand/v2"
	"strings"
)

const researchReplyFormat = "I found relevant information about \"%s\". Here are some documents and summaries related to your query:"

var researchKeywords = []string{
	"artículo", "investigación", "estudio", "investigar",
	"article", "research", "study", "investigate",
	"document", "documento",
}

type topicReply struct {
	keywords []string
	content  string
}

// Checked in order; the first topic with a matching keyword wins.
var topicReplies = []topicReply{
	{
		keywords: []string{"microgravity", "gravity"},
		content:  "Microgravity is one of the most fascinating aspects of space research! In the absence of Earth's gravity, biological systems behave completely differently. NASA studies show that microgravity affects everything from bone density to fluid distribution in the body. Astronauts experience muscle atrophy, bone loss, and changes in cardiovascular function. These effects are crucial to understand for long-duration missions to Mars.",
	},
	{
		keywords: []string{"radiation", "space radiation"},
		content:  "Space radiation is a major concern for human spaceflight! Beyond Earth's protective atmosphere, astronauts are exposed to cosmic rays and solar particle events. NASA research focuses on understanding radiation effects on DNA, cellular function, and long-term health. Current studies are developing better shielding materials and monitoring systems to protect future Mars explorers.",
	},
	{
		keywords: []string{"plants", "agriculture", "food"},
		content:  "Space agriculture is essential for future long-duration missions! NASA's Veggie experiments on the ISS have successfully grown lettuce, radishes, and other crops in microgravity. Plants in space grow differently - their roots don't follow gravity, and they require special lighting systems. This research is crucial for developing sustainable food production systems for Mars colonies.",
	},
	{
		keywords: []string{"mars", "mission"},
		content:  "Mars missions represent the next frontier in human space exploration! NASA's Artemis program is preparing for lunar missions that will serve as stepping stones to Mars. The challenges include radiation exposure, microgravity effects, psychological isolation, and life support systems. Current research focuses on developing technologies for sustainable Mars habitation and return missions.",
	},
	{
		keywords: []string{"health", "medical", "medicine"},
		content:  "Space medicine is a rapidly evolving field! NASA researchers study how spaceflight affects human health, from immediate effects like space motion sickness to long-term concerns like vision changes and bone loss. The research has led to medical advances on Earth, including improved osteoporosis treatments and better understanding of balance disorders.",
	},
}

var genericReplies = []string{
	"Excellent question about space research. According to NASA data, this topic involves multiple factors that we must consider. The microgravity environment creates unique conditions that affect biological systems in ways we're still discovering.",
	"Studies conducted on the International Space Station show fascinating results on this topic. I can explain more details about how space conditions impact human physiology and biological processes.",
	"Space research in this area has revealed surprising data. Astronauts have observed unique effects that cannot be replicated on Earth, providing valuable insights for both space exploration and medical research.",
	"This is a very active field of research at NASA. Recent studies suggest new directions for future missions, particularly in understanding how long-duration spaceflight affects human health.",
	"That's a fascinating aspect of space biology! NASA's research has shown that exposure to space radiation and microgravity can have profound effects on cellular function and gene expression.",
	"Great question! The International Space Station serves as our primary laboratory for studying biological processes in space. Recent experiments have revealed how plants and microorganisms adapt to space conditions.",
	"NASA's bioastronautics research is crucial for future Mars missions. Understanding how the human body responds to space conditions is essential for mission planning and astronaut safety.",
	"Interesting topic! Space medicine research has led to breakthroughs in understanding bone density loss, muscle atrophy, and cardiovascular changes that occur in microgravity environments.",
	"The effects of space on biological systems are complex and multifaceted. NASA's research covers everything from cellular biology to whole-body physiology, providing insights for both space exploration and Earth-based medicine.",
	"That's an important area of study! NASA researchers are investigating how space conditions affect everything from DNA repair mechanisms to immune system function, with implications for long-term space habitation.",
	"Space biology research has revealed that organisms adapt to microgravity in surprising ways. These adaptations could have applications for biotechnology and medical research on Earth.",
	"Excellent question! NASA's research in this field combines cutting-edge technology with fundamental biology to understand how life responds to the unique challenges of space exploration.",
}

func isResearchQuery(text string) bool {
	return containsAny(strings.ToLower(text), researchKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

type localReplies struct {
	intn func(n int) int
}

func newLocalReplies(intn func(n int) int) *localReplies {
	if intn == nil {
		intn = rand.IntN
	}
	return &localReplies{intn: intn}
}

func (l *localReplies) topicReply(text string) string {
	lower := strings.ToLower(text)
	for _, topic := range topicReplies {
		if containsAny(lower, topic.keywords) {
			return topic.content
		}
	}
	return genericReplies[l.intn(len(genericReplies))]
}
