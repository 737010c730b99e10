package game

// fireCatalog is the "Пожарная безопасность" (fire safety) game.
var fireCatalog = &Catalog{
	Name:  "fire",
	Title: "Пожарная безопасность",
	Levels: []Level{
		{
			ID:          1,
			Title:       "Знакомство с огнём",
			Description: "Узнаем основные правила обращения с огнём",
			Type:        LevelInteractive,
			Scenes: []Scene{
				{
					Text:  "Привет! Я твой помощник - Огнеборец. Сегодня мы научимся правилам пожарной безопасности!",
					Image: "/assets/games/fire/firefighter.png",
				},
				{
					Text:  "Огонь может быть как другом, так и врагом. Давай научимся правильно с ним обращаться!",
					Image: "/assets/games/fire/fire-friend-enemy.png",
				},
			},
		},
		{
			ID:          2,
			Title:       "Опасные предметы",
			Description: "Выбери правильную категорию для каждого предмета",
			Type:        LevelCategorySelect,
			Items: []Item{
				{ID: "matches", Name: "Спички", IsHazardous: true},
				{ID: "candle", Name: "Свеча", IsHazardous: true},
				{ID: "iron", Name: "Утюг", IsHazardous: true},
				{ID: "toy", Name: "Игрушка", IsHazardous: false},
				{ID: "book", Name: "Книга", IsHazardous: false},
			},
		},
		{
			ID:          3,
			Title:       "Правила безопасности",
			Description: "Проверь свои знания",
			Type:        LevelQuiz,
			Questions: []Question{
				{
					Text: "Что нужно делать, если увидел пожар?",
					Options: []string{
						"Спрятаться под кровать",
						"Позвонить в пожарную службу (01 или 112)",
						"Попытаться потушить самостоятельно",
						"Убежать на улицу",
					},
					CorrectAnswer: 1,
					Explanation:   "При пожаре нужно немедленно позвонить в пожарную службу по номеру 01 или 112. Это самое важное действие, которое может спасти жизни.",
				},
				{
					Text: "Можно ли играть со спичками?",
					Options: []string{
						"Да, если рядом взрослые",
						"Нет, никогда",
						"Да, если быть осторожным",
						"Да, только на улице",
					},
					CorrectAnswer: 1,
					Explanation:   "Играть со спичками категорически запрещено! Это очень опасно и может привести к пожару.",
				},
				{
					Text: "Что нужно делать, если загорелась одежда?",
					Options: []string{
						"Бежать за водой",
						"Снять одежду",
						"Упасть и кататься по полу",
						"Позвать на помощь",
					},
					CorrectAnswer: 2,
					Explanation:   "Если загорелась одежда, нужно немедленно упасть на пол и кататься, чтобы сбить пламя. Бежать нельзя - это усилит горение.",
				},
				{
					Text: "Как правильно эвакуироваться из горящего здания?",
					Options: []string{
						"Бежать как можно быстрее",
						"Идти спокойно, пригнувшись к полу",
						"Пользоваться лифтом",
						"Прыгать из окна",
					},
					CorrectAnswer: 1,
					Explanation:   "При эвакуации нужно идти спокойно, пригнувшись к полу, так как дым поднимается вверх. Пользоваться лифтом нельзя!",
				},
			},
		},
		{
			ID:          4,
			Title:       "Видео о пожарной безопасности",
			Description: "Посмотри обучающее видео",
			Type:        LevelVideo,
			VideoID:     "cTpyJ8lQUZs",
		},
		{
			ID:          5,
			Title:       "Собери набор пожарного",
			Description: "Выбери правильные предметы, которые нужны пожарному для работы",
			Type:        LevelFirefighterKit,
			KitItems: []KitItem{
				{
					ID:          "helmet",
					Name:        "Каска",
					Description: "Защищает голову пожарного от падающих предметов и высокой температуры",
					Image:       "/assets/games/fire/helmet.png",
					IsCorrect:   true,
				},
				{
					ID:          "axe",
					Name:        "Топор",
					Description: "Помогает пробираться через закрытые двери и преграды",
					Image:       "/assets/games/fire/axe.png",
					IsCorrect:   true,
				},
				{
					ID:          "hose",
					Name:        "Пожарный рукав",
					Description: "Подает воду для тушения пожара",
					Image:       "/assets/games/fire/hose.png",
					IsCorrect:   true,
				},
				{
					ID:          "mask",
					Name:        "Противогаз",
					Description: "Защищает органы дыхания от дыма",
					Image:       "/assets/games/fire/mask.png",
					IsCorrect:   true,
				},
				{
					ID:          "gloves",
					Name:        "Перчатки",
					Description: "Защищают руки от ожогов и травм",
					Image:       "/assets/games/fire/gloves.png",
					IsCorrect:   true,
				},
				{
					ID:          "umbrella",
					Name:        "Зонтик",
					Description: "Не является частью экипировки пожарного",
					Image:       "/assets/games/fire/umbrella.png",
					IsCorrect:   false,
				},
				{
					ID:          "toy",
					Name:        "Игрушка",
					Description: "Не является частью экипировки пожарного",
					Image:       "/assets/games/fire/toy.png",
					IsCorrect:   false,
				},
				{
					ID:          "book",
					Name:        "Книга",
					Description: "Не является частью экипировки пожарного",
					Image:       "/assets/games/fire/book.png",
					IsCorrect:   false,
				},
			},
		},
	},
}
