package arena

// Each phrase takes the player's name and level.
var loserPhrases = []string{
	"%s (Lv.%d) swings wide and hits nothing but air.",
	"%s (Lv.%d) trips over their own cape.",
	"%s (Lv.%d) raises a shield a moment too late.",
	"%s (Lv.%d) staggers back, gasping for breath.",
	"%s (Lv.%d) fumbles a spell and singes their eyebrows.",
	"%s (Lv.%d) lunges forward and loses their footing.",
}

var winnerPhrases = []string{
	"%s (Lv.%d) answers with a crushing blow!",
	"%s (Lv.%d) sidesteps and strikes back hard!",
	"%s (Lv.%d) lands a clean hit!",
	"%s (Lv.%d) presses the attack without mercy!",
	"%s (Lv.%d) parries and counters in one motion!",
	"%s (Lv.%d) lets out a war cry and charges!",
}
