package npc

import "github.com/PKM100/mnemocyte-sub001/internal/types"

// roleOpenings keys the fallback composer's opening lines by archetype and
// classifier category. Every role carries all five categories; unknown roles
// fall back to fallbackOpenings.
var roleOpenings = map[types.Role]map[Category][]string{
	types.RoleWarrior: {
		CategoryQuestion: {
			"A fair question. In battle, hesitation costs lives, so I will answer plainly.",
			"You ask, I answer. That is how warriors deal with words.",
		},
		CategoryPositive: {
			"Ha! Good spirits sharpen the blade as much as any whetstone.",
			"That pleases me. A glad heart swings a stronger sword.",
		},
		CategoryNegative: {
			"Grim words. I have heard worse on the eve of battle.",
			"Do not let it break you. Steel bends before it shatters.",
		},
		CategoryPhilosophical: {
			"Philosophers talk while soldiers march. Still, the question deserves an answer.",
			"I have seen enough battlefields to wonder about such things myself.",
		},
		CategoryNeutral: {
			"Speak freely. My sword arm rests for now.",
			"I am listening. The watch is quiet tonight.",
		},
	},
	types.RoleMerchant: {
		CategoryQuestion: {
			"An excellent question, and information is the finest commodity of all.",
			"Ask away, friend. The first answer is free.",
		},
		CategoryPositive: {
			"Splendid! Good cheer is good for business.",
			"Now that is what I like to hear. Shall we celebrate with a purchase?",
		},
		CategoryNegative: {
			"A sour mood, eh? Even bad days can turn a profit if you know where to look.",
			"Troubles weigh like unsold stock. Best to move them along.",
		},
		CategoryPhilosophical: {
			"Deep questions! I price those by the pound, but for you, a discount.",
			"Every coin has two faces, and so does every truth.",
		},
		CategoryNeutral: {
			"Welcome, welcome. Browse my thoughts as you would my wares.",
			"A slow day at the stall leaves plenty of time to talk.",
		},
	},
	types.RoleScholar: {
		CategoryQuestion: {
			"Ah, an inquiry! Let me consult what I have read on the matter.",
			"A question worth studying. The archives suggest several answers.",
		},
		CategoryPositive: {
			"How delightful. Optimism is an underrated field of study.",
			"Your enthusiasm is noted and, I confess, contagious.",
		},
		CategoryNegative: {
			"Troubling. The histories record darker chapters that still found light.",
			"I understand. Knowledge offers cold comfort, but comfort nonetheless.",
		},
		CategoryPhilosophical: {
			"Now this is a question the old masters argued for centuries.",
			"You touch upon the very heart of the great texts.",
		},
		CategoryNeutral: {
			"Hm, yes. Allow me a moment to gather my notes.",
			"An unremarkable observation can still hide a remarkable truth.",
		},
	},
	types.RoleGuard: {
		CategoryQuestion: {
			"State your business plainly and I will answer what I can.",
			"Questions are fine, so long as the peace is kept.",
		},
		CategoryPositive: {
			"Good to hear. Calm streets and glad hearts make an easy shift.",
			"Keep that spirit. It makes my rounds lighter.",
		},
		CategoryNegative: {
			"Trouble? Report it properly and I will see to it.",
			"Steady now. Panic spreads faster than fire.",
		},
		CategoryPhilosophical: {
			"I stand watch; I leave the big questions to those with time to sit.",
			"On long night watches, even a guard wonders about such things.",
		},
		CategoryNeutral: {
			"All quiet on my watch. What do you need?",
			"Move along or stay and talk, either suits me.",
		},
	},
	types.RoleVillager: {
		CategoryQuestion: {
			"Oh, you're asking me? Well, I'll tell you what folk around here say.",
			"That's a question for wiser heads, but I'll do my best.",
		},
		CategoryPositive: {
			"That's lovely to hear! It does the heart good.",
			"Wonderful news! We could use more of that around the village.",
		},
		CategoryNegative: {
			"Oh dear, that's no good at all. I'm sorry to hear it.",
			"Hard times come to every door, they say.",
		},
		CategoryPhilosophical: {
			"My, such big thoughts. We mostly worry about the harvest here.",
			"The old folk by the well talk of such things sometimes.",
		},
		CategoryNeutral: {
			"Nice day for a chat, isn't it?",
			"Well now, it's always good to have company.",
		},
	},
	types.RoleMystic: {
		CategoryQuestion: {
			"The answer you seek has been circling you all along.",
			"You ask, and the currents stir. Listen closely.",
		},
		CategoryPositive: {
			"Your light burns brightly today. The spirits take notice.",
			"Joy is a powerful omen. Carry it carefully.",
		},
		CategoryNegative: {
			"Shadows cling to your words. Let us see what casts them.",
			"Pain is a messenger. Do not turn it away unheard.",
		},
		CategoryPhilosophical: {
			"At last, a question worthy of the veil between worlds.",
			"The stars have whispered of this very matter.",
		},
		CategoryNeutral: {
			"The air is still. A good moment for quiet words.",
			"Sit. The signs suggested you would come to talk.",
		},
	},
}

// fallbackOpenings serves any role missing from roleOpenings.
var fallbackOpenings = map[Category][]string{
	CategoryQuestion:      {"A fair question. Let me think on it."},
	CategoryPositive:      {"That is good to hear."},
	CategoryNegative:      {"I am sorry to hear that."},
	CategoryPhilosophical: {"A weighty thought, that."},
	CategoryNeutral:       {"I see. Go on."},
}

// flavorPhrases prefix the opening when the character's dominant behavioral
// trait is strong enough and the draw succeeds.
var flavorPhrases = map[string][]string{
	"sociability": {"Always a pleasure to talk.", "Company makes any topic better."},
	"curiosity":   {"Now this interests me.", "I have been wondering about this myself."},
	"aggression":  {"Straight to the point, then.", "I will not mince words."},
	"loyalty":     {"You can count on an honest answer from me.", "For a friend, I speak freely."},
	"humor":       {"Stop me if you've heard this one.", "Life's too short for dull answers."},
}

// emotionPhrases color the reply when the character's dominant emotional
// weight is strong enough and the draw succeeds.
var emotionPhrases = map[string][]string{
	"happiness": {"*smiles warmly*", "*brightens visibly*"},
	"sadness":   {"*sighs softly*", "*gazes into the distance*"},
	"anger":     {"*jaw tightens*", "*folds arms*"},
	"fear":      {"*glances over a shoulder*", "*lowers voice*"},
	"surprise":  {"*eyebrows rise*", "*blinks*"},
	"disgust":   {"*wrinkles nose*", "*grimaces*"},
}

// continuityLines pad replies that come out too short.
var continuityLines = []string{
	"But enough of that; tell me what brought this to your mind.",
	"There is more to say on this, should you care to hear it.",
	"I suspect this conversation is far from finished.",
}
