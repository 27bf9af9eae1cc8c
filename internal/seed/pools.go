package seed

import "github.com/smartjournal/internal/activity"

type entryPool struct {
	titles  []string
	texts   []string
	details []string
}

// texts 中的 %s 会被替换为一条细节描述。
var entryPools = map[string]entryPool{
	StateDepressive: {
		titles: []string{"Everything feels heavy", "Another grey day", "Running on empty", "Lost in the fog"},
		texts: []string{
			"Could not get out of bed until noon. Everything feels pointless. %s",
			"My mind is foggy and I keep making mistakes at work. %s I just want to sleep.",
			"Cancelled plans again because seeing people feels exhausting. %s",
		},
		details: []string{
			"The dishes in the sink keep piling up.",
			"Someone asked if I was okay and I nearly cried.",
			"My appetite is completely gone.",
			"I have been ignoring calls from my family.",
		},
	},
	StateNeutral: {
		titles: []string{"A normal day", "Small steps forward", "Steady ground", "Quiet moments"},
		texts: []string{
			"Today was okay. Got some work done and went for a short walk. %s",
			"Feeling more balanced today. %s Not too high, not too low.",
			"Spent the evening reading. %s It is nice to enjoy small things again.",
		},
		details: []string{
			"I remembered to water my plants.",
			"I cooked a proper meal instead of snacking.",
			"I took my medication on time.",
			"I replied to emails I had been putting off.",
		},
	},
	StateManic: {
		titles: []string{"UNLIMITED POTENTIAL", "Breakthrough after breakthrough", "The world can't keep up", "Riding the lightning"},
		texts: []string{
			"I have SO MANY IDEAS. Started three new projects today. %s Barely slept and I am full of energy!",
			"Talked to everyone at the coffee shop and made new friends! %s Everything is connected!",
			"Have not slept in 36 hours and I do not even feel tired. %s",
		},
		details: []string{
			"I rearranged all the furniture at 3 AM!",
			"I signed up for six online courses today!",
			"I bought tickets for a spontaneous trip to Japan!",
			"I wrote code for 18 hours straight!",
		},
	},
}

var triggerPools = map[activity.Emotion][]string{
	activity.Joy:     {"Starting new projects", "Feeling connected to everyone", "Rapid thoughts", "Feeling invincible"},
	activity.Sadness: {"Feeling worthless", "Lack of energy", "Isolation", "Past failures"},
	activity.Anger:   {"People working too slowly", "Being misunderstood", "Interruptions to my flow"},
	activity.Fear:    {"Losing control", "Financial worries", "Health concerns", "Social rejection"},
}

// urgeEntryPools 以主要冲动的小写名称为键，空字符串表示没有突出的冲动。
var urgeEntryPools = map[string]entryPool{
	"spend": {
		titles: []string{"Fighting the shopping impulse", "Retail therapy calling", "The cart keeps filling up"},
		texts: []string{
			"Spent an hour browsing online stores. %s Did not buy anything but the pull was strong.",
			"Every sale sign at the mall felt like it was meant for me. %s Stuck to my budget, barely.",
			"Looked at a new phone again even though mine works fine. %s",
		},
		details: []string{
			"I keep adding things to my cart and closing the tab.",
			"My wishlist gets longer every day.",
			"The sale emails are hard not to click.",
		},
	},
	"scroll": {
		titles: []string{"Stuck in the feed", "Notification pull", "Screen time again"},
		texts: []string{
			"Kept checking my phone all day. %s Must have opened the app forty times.",
			"Scrolled way too long and kept comparing myself to others. %s",
			"Reached for my phone in the middle of a conversation. %s",
		},
		details: []string{
			"I feel restless when the phone is out of reach.",
			"My weekly screen time report is embarrassing.",
			"Every new like gives me a small rush.",
		},
	},
	"eat": {
		titles: []string{"Cravings all day", "Eating past full", "Comfort food evening"},
		texts: []string{
			"Craved sweets all afternoon. %s Even after a proper meal I kept thinking about dessert.",
			"Snacked constantly while working. %s I was not even hungry.",
			"Ordered takeout with a full fridge at home. %s",
		},
		details: []string{
			"I finished a whole box of cookies in one sitting.",
			"I was planning the next meal before finishing this one.",
			"I kept opening the fridge without wanting anything in it.",
		},
	},
	"isolate": {
		titles: []string{"Pulling away", "Ignoring the phone", "Staying in again"},
		texts: []string{
			"Cancelled plans with friends again. %s Being around people felt like too much.",
			"Ignored several calls today. %s I just wanted to be alone.",
			"Skipped the event I had been looking forward to. %s",
		},
		details: []string{
			"I let my phone battery die to avoid calls.",
			"Small talk makes me want to hide.",
			"I kept the curtains closed all day.",
		},
	},
	"": {
		titles: []string{"A balanced day", "Urges in check", "Noticing the patterns"},
		texts: []string{
			"Today felt fairly balanced. %s I noticed some urges but they did not run the day.",
			"A steady day with moderate urges. %s",
			"I was aware of my patterns today. %s That helped me choose better.",
		},
		details: []string{
			"I paused for a mindful moment when an urge came up.",
			"I stuck to my plan without impulsive changes.",
			"I used a coping strategy from therapy.",
		},
	},
}

func urgePoolFor(primary string) entryPool {
	if pool, ok := urgeEntryPools[primary]; ok {
		return pool
	}
	return urgeEntryPools[""]
}

var urgeTriggerPools = map[string][]string{
	"Eat":     {"Emotional comfort", "Stress", "Boredom", "Social eating"},
	"Drink":   {"Stress relief", "Social pressure", "Habit", "Emotional regulation"},
	"Smoke":   {"Work breaks", "Stress relief", "Habit"},
	"Spend":   {"Advertisements", "Stress relief", "Sale notifications", "Social comparison"},
	"Scroll":  {"Fear of missing out", "Boredom", "Social validation", "Avoiding tasks"},
	"Isolate": {"Social anxiety", "Emotional overwhelm", "Rejection sensitivity", "Low energy"},
}

type themeSeed struct {
	name     string
	evidence []string
}

var themePools = map[string][]themeSeed{
	"spend": {
		{"Immediate gratification", []string{"Excitement about buying", "Focus on new purchases"}},
		{"Self-soothing", []string{"Shopping as stress relief", "Short-lived mood lift"}},
	},
	"scroll": {
		{"Connection seeking", []string{"Checking for interactions", "Fear of missing out"}},
		{"Validation", []string{"Counting likes", "Comparing with others"}},
	},
	"eat": {
		{"Emotional regulation", []string{"Eating in response to feelings", "Food as comfort"}},
		{"Control and release", []string{"Cycles of restriction and indulgence", "Guilt after eating"}},
	},
	"isolate": {
		{"Self-protection", []string{"Avoiding vulnerability", "Drained by interactions"}},
		{"Safety seeking", []string{"Comfort in familiar places", "Relief when alone"}},
	},
	"": {
		{"Balance", []string{"Moderation in behaviour", "Awareness of urges"}},
		{"Self-awareness", []string{"Reflecting on patterns", "Recognising triggers"}},
	},
}

var additionalThemes = []themeSeed{
	{"Growth", []string{"Learning from experience", "Noticing progress"}},
	{"Resilience", []string{"Bouncing back from setbacks", "Persisting through difficulty"}},
	{"Authenticity", []string{"Acting on values", "Honest self-expression"}},
}

type reflectionPool struct {
	reflections [][2]string
	summary     string
}

var reflectionPools = map[string]reflectionPool{
	"spend": {
		reflections: [][2]string{
			{"I browse stores even when I know I should not buy anything.", "Shopping urges spike when I am stressed or bored."},
			{"I call purchases necessary when they clearly are not.", "Buying things gives me a brief sense of control."},
		},
		summary: "Some awareness of shopping urges and their triggers, with few alternative coping strategies yet.",
	},
	"scroll": {
		reflections: [][2]string{
			{"I check my phone most when I feel anxious or bored.", "Scrolling is my default escape from uncomfortable feelings."},
			{"I feel connected and lonely at the same time after long sessions.", "The shallow contact may be adding to my loneliness."},
		},
		summary: "Emerging awareness of social media habits and their emotional cost, though the urge stays strong.",
	},
	"eat": {
		reflections: [][2]string{
			{"I turn to food when I feel overwhelmed.", "Eating numbs the feeling without resolving it."},
			{"Food urges are strongest at night or when I am alone.", "Food fills an emotional or social gap."},
		},
		summary: "Growing awareness of emotional eating and its triggers while alternatives are still forming.",
	},
	"isolate": {
		reflections: [][2]string{
			{"I keep cancelling plans even though connection matters to me.", "Short-term relief from avoiding people has long-term costs."},
			{"Being alone feels safe but also heavy.", "Withdrawal protects me and also keeps me stuck."},
		},
		summary: "Recognition of withdrawal as self-protection, with mixed feelings about its effects.",
	},
	"": {
		reflections: [][2]string{
			{"I notice how my urges rise and fall through the day.", "Seeing the pattern helps me step in early."},
			{"Routines make my urges feel less intense.", "Structure steadies both mood and behaviour."},
		},
		summary: "Good self-awareness of urge patterns with meaningful insight into triggers and strategies.",
	},
}
