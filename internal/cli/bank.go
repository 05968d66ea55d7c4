package cli

import "quizmaster/internal/domain"

// SampleBank provides a built-in question set; swap the loader for the
// Postgres-backed one in production.
func SampleBank() []domain.Question {
	return []domain.Question{
		{
			ID:           "sci-1",
			Text:         "What is the chemical symbol for gold?",
			Options:      []string{"Go", "Gd", "Au", "Ag"},
			CorrectIndex: 2,
			Category:     "Science",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
			Explanation:  "Au comes from the Latin aurum.",
		},
		{
			ID:           "sci-2",
			Text:         "Which planet has the most moons?",
			Options:      []string{"Jupiter", "Saturn", "Uranus", "Neptune"},
			CorrectIndex: 1,
			Category:     "Science",
			Difficulty:   domain.DifficultyMedium,
			Points:       2,
		},
		{
			ID:           "sci-3",
			Text:         "What particle carries a negative electric charge?",
			Options:      []string{"Proton", "Neutron", "Electron", "Photon"},
			CorrectIndex: 2,
			Category:     "Science",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
		{
			ID:           "sci-4",
			Text:         "What is the half-life of carbon-14, roughly?",
			Options:      []string{"570 years", "5,700 years", "57,000 years", "570,000 years"},
			CorrectIndex: 1,
			Category:     "Science",
			Difficulty:   domain.DifficultyHard,
			Points:       3,
			Explanation:  "About 5,730 years, which makes it useful for dating organic material.",
		},
		{
			ID:           "math-1",
			Text:         "What is 7 × 8?",
			Options:      []string{"54", "56", "58", "64"},
			CorrectIndex: 1,
			Category:     "Math",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
		{
			ID:           "math-2",
			Text:         "What is the square root of 144?",
			Options:      []string{"10", "11", "12", "14"},
			CorrectIndex: 2,
			Category:     "Math",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
		{
			ID:           "math-3",
			Text:         "What is the sum of the interior angles of a hexagon?",
			Options:      []string{"540°", "620°", "720°", "900°"},
			CorrectIndex: 2,
			Category:     "Math",
			Difficulty:   domain.DifficultyMedium,
			Points:       2,
			Explanation:  "(n-2) × 180° with n=6 gives 720°.",
		},
		{
			ID:           "math-4",
			Text:         "Which of these is a prime number?",
			Options:      []string{"91", "87", "97", "93"},
			CorrectIndex: 2,
			Category:     "Math",
			Difficulty:   domain.DifficultyHard,
			Points:       3,
		},
		{
			ID:           "hist-1",
			Text:         "In which year did World War II end?",
			Options:      []string{"1943", "1944", "1945", "1946"},
			CorrectIndex: 2,
			Category:     "History",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
		{
			ID:           "hist-2",
			Text:         "Who was the first emperor of Rome?",
			Options:      []string{"Julius Caesar", "Augustus", "Nero", "Tiberius"},
			CorrectIndex: 1,
			Category:     "History",
			Difficulty:   domain.DifficultyMedium,
			Points:       2,
			Explanation:  "Octavian took the name Augustus in 27 BC.",
		},
		{
			ID:           "hist-3",
			Text:         "The Treaty of Westphalia was signed in which year?",
			Options:      []string{"1588", "1618", "1648", "1688"},
			CorrectIndex: 2,
			Category:     "History",
			Difficulty:   domain.DifficultyHard,
			Points:       3,
		},
		{
			ID:           "geo-1",
			Text:         "What is the capital of Australia?",
			Options:      []string{"Sydney", "Melbourne", "Canberra", "Perth"},
			CorrectIndex: 2,
			Category:     "Geography",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
		{
			ID:           "geo-2",
			Text:         "Which river is the longest in the world?",
			Options:      []string{"Amazon", "Nile", "Yangtze", "Mississippi"},
			CorrectIndex: 1,
			Category:     "Geography",
			Difficulty:   domain.DifficultyMedium,
			Points:       2,
		},
		{
			ID:           "geo-3",
			Text:         "Which country has the most time zones?",
			Options:      []string{"Russia", "USA", "France", "China"},
			CorrectIndex: 2,
			Category:     "Geography",
			Difficulty:   domain.DifficultyHard,
			Points:       3,
			Explanation:  "France spans 12 time zones counting overseas territories.",
		},
		{
			ID:           "geo-4",
			Text:         "Mount Kilimanjaro is located in which country?",
			Options:      []string{"Kenya", "Tanzania", "Uganda", "Ethiopia"},
			CorrectIndex: 1,
			Category:     "Geography",
			Difficulty:   domain.DifficultyMedium,
			Points:       2,
		},
		{
			ID:           "sci-5",
			Text:         "What gas do plants primarily absorb for photosynthesis?",
			Options:      []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
			CorrectIndex: 2,
			Category:     "Science",
			Difficulty:   domain.DifficultyEasy,
			Points:       1,
		},
	}
}
