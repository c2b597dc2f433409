package fetch

import (
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head><title>Resolução 996 explicada</title></head>
<body>
<header><nav><a href="/">Home</a> <a href="/noticias">Notícias</a></nav></header>
<article>
<h1>Resolução 996 explicada</h1>
<p>A Resolução 996 do CONTRAN estabelece os requisitos de circulação para
equipamentos de mobilidade individual autopropelidos, como patinetes e
bicicletas elétricas, definindo limites de velocidade e regras de uso em vias
públicas e ciclovias das cidades brasileiras.</p>
<p>Entre os pontos principais está a velocidade máxima de 32 km/h para os
equipamentos autopropelidos, além da exigência de indicador de velocidade,
campainha e sinalização noturna para circulação segura após o anoitecer.</p>
<p>Municípios seguem responsáveis por regulamentar onde os equipamentos podem
circular, o que inclui calçadas, ciclofaixas e áreas de circulação
compartilhada, respeitando os limites estabelecidos pela norma federal.</p>
</article>
<footer><p>Rodapé do site</p></footer>
</body>
</html>`

func TestExtractorRun(t *testing.T) {
	extractor := NewExtractor()

	body, err := extractor.Run([]byte(articleHTML), "https://portal.example/resolucao-996")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(body, "velocidade máxima de 32 km/h") {
		t.Error("Expected the article body in the extracted content")
	}
	if strings.Contains(body, "Rodapé do site") {
		t.Error("Expected boilerplate stripped from the extracted content")
	}
}

func TestExtractorRun_EmptyInput(t *testing.T) {
	extractor := NewExtractor()

	if _, err := extractor.Run(nil, "https://portal.example/vazio"); err == nil {
		t.Error("Expected an error for empty input")
	}
}
