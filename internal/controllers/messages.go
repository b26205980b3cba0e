package controllers

// User-facing error strings for the shorten endpoint, keyed by locale hint.
// The default locale is Spanish, matching the hosted frontend.
var shortenMessages = map[string]map[string]string{
	"es": {
		"invalid_url":  "URL inválida. Por favor, introduce una URL válida.",
		"url_too_long": "La URL es demasiado larga.",
		"id_exhausted": "No se pudo generar un ID único. Por favor, inténtalo de nuevo.",
		"store_error":  "Error al guardar la URL. Por favor, inténtalo de nuevo.",
		"bad_request":  "Formato de solicitud inválido. Se esperaba JSON.",
	},
	"en": {
		"invalid_url":  "Invalid URL. Please enter a valid URL.",
		"url_too_long": "The URL is too long.",
		"id_exhausted": "Could not generate a unique ID. Please try again.",
		"store_error":  "Error saving the URL. Please try again.",
		"bad_request":  "Invalid request format. JSON expected.",
	},
}

func message(lang, key string) string {
	if lang != "en" {
		lang = "es"
	}
	return shortenMessages[lang][key]
}
