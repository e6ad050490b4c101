package i18n

import (
	"maps"
	"slices"
)

// Language represents a supported language.
type Language string

const (
	// English is the English language.
	English Language = "en"
	// Spanish is the Spanish language.
	Spanish Language = "es"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = English

// translations maps language codes to translation keys and their values.
//
//nolint:gochecknoglobals // static lookup table.
var translations = map[Language]map[string]string{
	English: {
		"app.title":             "FitRoutine",
		"app.tagline":           "Personalized workout routines.",
		"nav.home":              "Home",
		"nav.routine":           "My routine",
		"nav.history":           "History",
		"nav.nutrition":         "Nutrition",
		"form.title":            "Create your routine",
		"form.age":              "Age",
		"form.level":            "Experience level",
		"form.goal":             "Goal",
		"form.days":             "Days per week",
		"form.submit":           "Generate routine",
		"level.beginner":        "Beginner",
		"level.intermediate":    "Intermediate",
		"level.advanced":        "Advanced",
		"goal.lose_weight":      "Lose weight",
		"goal.gain_muscle":      "Gain muscle",
		"goal.stay_fit":         "Stay fit",
		"difficulty.easy":       "Easy",
		"difficulty.normal":     "Normal",
		"difficulty.hard":       "Hard",
		"routine.title":         "Your routine",
		"routine.day":           "Day",
		"routine.export":        "Download as text",
		"routine.feedback":      "How did the workout feel?",
		"routine.complete":      "Mark workout as done",
		"routine.empty":         "You have not generated a routine yet.",
		"routine.adjusted":      "Adjusted using your latest feedback and nutrition preferences.",
		"stats.title":           "Progress",
		"stats.workouts":        "Workouts",
		"stats.streak":          "Day streak",
		"stats.points":          "Points",
		"nutrition.title":       "Nutrition preferences",
		"nutrition.goal":        "Nutrition goal",
		"nutrition.calories":    "Daily calories",
		"nutrition.preferences": "Dietary preferences",
		"nutrition.allergies":   "Allergies",
		"nutrition.save":        "Save preferences",
		"nutrition.none":        "No nutrition preferences saved.",
		"history.title":         "Routine history",
		"history.empty":         "No routines yet.",
		"history.days":          "days",
		"exercise.back":         "Back to routine",
		"language.picker.label": "Language",
		"language.name.en":      "English",
		"language.name.es":      "Español",
		"error.age":             "Age must be a number between 10 and 80.",
		"error.level":           "Choose an experience level.",
		"error.goal":            "Choose a goal.",
		"error.days":            "Days per week must be between 1 and 7.",
		"error.calories":        "Calories must be between 1000 and 5000.",
		"error.nutrition_goal":  "Choose a nutrition goal.",
		"error.difficulty":      "Choose how the workout felt.",
		"error.title":           "Something went wrong",
		"error.notfound":        "Page not found",
		"maintenance.title":     "Down for maintenance",
		"maintenance.message":   "We are updating the application. Please try again in a few minutes.",
	},
	Spanish: {
		"app.title":             "FitRoutine",
		"app.tagline":           "Rutinas de ejercicio personalizadas.",
		"nav.home":              "Inicio",
		"nav.routine":           "Mi rutina",
		"nav.history":           "Historial",
		"nav.nutrition":         "Nutrición",
		"form.title":            "Crea tu rutina",
		"form.age":              "Edad",
		"form.level":            "Nivel de experiencia",
		"form.goal":             "Objetivo",
		"form.days":             "Días por semana",
		"form.submit":           "Generar rutina",
		"level.beginner":        "Principiante",
		"level.intermediate":    "Intermedio",
		"level.advanced":        "Avanzado",
		"goal.lose_weight":      "Perder peso",
		"goal.gain_muscle":      "Ganar músculo",
		"goal.stay_fit":         "Mantenerse en forma",
		"difficulty.easy":       "Fácil",
		"difficulty.normal":     "Normal",
		"difficulty.hard":       "Difícil",
		"routine.title":         "Tu rutina",
		"routine.day":           "Día",
		"routine.export":        "Descargar como texto",
		"routine.feedback":      "¿Cómo te sentiste en el entrenamiento?",
		"routine.complete":      "Marcar entrenamiento como hecho",
		"routine.empty":         "Todavía no has generado una rutina.",
		"routine.adjusted":      "Ajustada según tu última valoración y tus preferencias de nutrición.",
		"stats.title":           "Progreso",
		"stats.workouts":        "Entrenamientos",
		"stats.streak":          "Racha de días",
		"stats.points":          "Puntos",
		"nutrition.title":       "Preferencias de nutrición",
		"nutrition.goal":        "Objetivo nutricional",
		"nutrition.calories":    "Calorías diarias",
		"nutrition.preferences": "Preferencias alimentarias",
		"nutrition.allergies":   "Alergias",
		"nutrition.save":        "Guardar preferencias",
		"nutrition.none":        "No hay preferencias de nutrición guardadas.",
		"history.title":         "Historial de rutinas",
		"history.empty":         "Todavía no hay rutinas.",
		"history.days":          "días",
		"exercise.back":         "Volver a la rutina",
		"language.picker.label": "Idioma",
		"language.name.en":      "English",
		"language.name.es":      "Español",
		"error.age":             "La edad debe ser un número entre 10 y 80.",
		"error.level":           "Elige un nivel de experiencia.",
		"error.goal":            "Elige un objetivo.",
		"error.days":            "Los días por semana deben estar entre 1 y 7.",
		"error.calories":        "Las calorías deben estar entre 1000 y 5000.",
		"error.nutrition_goal":  "Elige un objetivo nutricional.",
		"error.difficulty":      "Elige cómo te sentiste.",
		"error.title":           "Algo salió mal",
		"error.notfound":        "Página no encontrada",
		"maintenance.title":     "En mantenimiento",
		"maintenance.message":   "Estamos actualizando la aplicación. Inténtalo de nuevo en unos minutos.",
	},
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{English, Spanish}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	// Try the requested language.
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}

	// Fallback to default language.
	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation
		}
	}

	// Return the key itself if no translation found.
	return key
}

// Keys returns the translation keys defined for lang in sorted order.
func Keys(lang Language) []string {
	return slices.Sorted(maps.Keys(translations[lang]))
}
