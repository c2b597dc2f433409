package content

import "testing"

func TestScore_TitleSubstringAndTokenMatch(t *testing.T) {
	item := Item{Title: "Patinete elétrico"}

	score := Score([]string{"patinete"}, item, DefaultSearchFields)

	// Substring hit (10) plus one token hit (3) in the title.
	if score != 13 {
		t.Errorf("Expected score 13, got %v", score)
	}
}

func TestScore_DescriptionWeighsLessThanTitle(t *testing.T) {
	inTitle := Item{Title: "Patinete nas ruas"}
	inDescription := Item{Description: "Patinete nas ruas"}

	titleScore := Score([]string{"patinete"}, inTitle, DefaultSearchFields)
	descScore := Score([]string{"patinete"}, inDescription, DefaultSearchFields)

	if titleScore <= descScore {
		t.Errorf("Expected title match (%v) to outweigh description match (%v)", titleScore, descScore)
	}
	if descScore != 7 {
		t.Errorf("Expected description score 7, got %v", descScore)
	}
}

func TestScore_AccentInsensitive(t *testing.T) {
	item := Item{Title: "Regulamentacao de patinetes eletricos"}

	score := Score([]string{"elétrico"}, item, DefaultSearchFields)

	if score <= 0 {
		t.Errorf("Expected accented query to match unaccented text, got %v", score)
	}
}

func TestScore_TagsField(t *testing.T) {
	item := Item{Tags: []string{"mobilidade", "ciclovia"}}

	score := Score([]string{"ciclovia"}, item, DefaultSearchFields)

	// Tags use the default weights: substring 2 plus token 1.
	if score != 3 {
		t.Errorf("Expected score 3, got %v", score)
	}
}

func TestScore_NoMatch(t *testing.T) {
	item := Item{Title: "Receita de bolo de cenoura", Description: "Ingredientes e modo de preparo"}

	if score := Score([]string{"patinete"}, item, DefaultSearchFields); score != 0 {
		t.Errorf("Expected score 0, got %v", score)
	}
}

func TestScore_EmptyTermsAndFields(t *testing.T) {
	item := Item{Title: "Patinete"}

	if score := Score(nil, item, DefaultSearchFields); score != 0 {
		t.Errorf("Expected 0 for no terms, got %v", score)
	}
	if score := Score([]string{"patinete"}, item, nil); score != 0 {
		t.Errorf("Expected 0 for no fields, got %v", score)
	}
}

func TestScore_CustomFieldSelection(t *testing.T) {
	item := Item{Title: "Patinete", Content: "patinete em detalhe"}

	score := Score([]string{"patinete"}, item, []string{"content"})

	// Content is not a default field and carries the generic weights.
	if score != 3 {
		t.Errorf("Expected score 3 from content field only, got %v", score)
	}
}
