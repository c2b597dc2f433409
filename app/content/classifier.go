package content

import "strings"

// Keyword-based category inference for incoming items. Title matches count
// double, mirroring how readers scan headlines first.

var categoryKeywords = map[Category][]string{
	CategoryRegulation: {
		"resolucao", "996", "contran", "denatran", "senatran", "lei",
		"norma", "regulamentacao", "regulamento", "fiscalizacao", "multa",
		"legislacao", "portaria", "homologacao", "registro", "licenciamento",
	},
	CategorySafety: {
		"seguranca", "capacete", "acidente", "atropelamento", "colisao",
		"sinistro", "risco", "protecao", "velocidade", "alerta",
	},
	CategoryTechnology: {
		"bateria", "motor", "autonomia", "lancamento", "tecnologia",
		"recarga", "lithium", "litio", "firmware", "aplicativo", "potencia",
	},
	CategoryUrbanMobility: {
		"mobilidade", "ciclovia", "ciclofaixa", "transito", "cidade",
		"urbano", "urbana", "transporte", "compartilhado", "calcada",
		"prefeitura", "infraestrutura",
	},
}

// classifierOrder keeps inference deterministic when scores tie.
var classifierOrder = []Category{
	CategoryRegulation,
	CategorySafety,
	CategoryUrbanMobility,
	CategoryTechnology,
}

// Classify infers the category of an item from its title and description.
// Returns fallback (or general) when nothing matches.
func Classify(title, description string, fallback Category) Category {
	titleText := Normalize(title)
	descText := Normalize(description)

	best := fallback
	if best == "" || best == CategoryAll {
		best = CategoryGeneral
	}
	bestScore := 0

	for _, category := range classifierOrder {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(titleText, keyword) {
				score += 2
			}
			if strings.Contains(descText, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	return best
}

// nicheTerms describe the portal's subject. Incoming items are scored
// against them to seed the stored relevance score.
var nicheTerms = []string{
	"autopropelido", "autopropelidos", "patinete", "eletrico", "eletrica",
	"bicicleta", "bike", "ciclomotor", "996", "contran", "mobilidade",
	"scooter", "hoverboard", "monociclo",
}

// NicheRelevance estimates how pertinent an item is to the portal's niche,
// on the usual 0-100 scale. It reuses the field-weighted scorer with the
// niche vocabulary as the query.
func NicheRelevance(item Item) float64 {
	raw := Score(nicheTerms, item, DefaultSearchFields)
	// A single strong title hit (substring + token) lands at 13; two niche
	// terms in the title alone already saturate the scale.
	return Clamp(raw * 4)
}
