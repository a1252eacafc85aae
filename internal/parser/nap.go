package parser

// newNAPParser builds the pipeline for NAP saturation demands.
func newNAPParser(cities CityTable) RowParser {
	return &rowPipeline{
		cities: cities,
		cfg: pipelineConfig{
			requiredColumns: []string{
				ColIDDemanda, ColCodOperadora, ColEnderecoVistoria,
				ColFila, ColTipoDemanda, ColCodBaixa, ColDataInicio,
			},
			excludedDispositions: map[string]bool{
				"21": true,
				"36": true,
				"44": true,
			},
			excludedDemandTypes: map[string]bool{},
			queuesByAssignment: map[string][]string{
				"análise": {"Saturação NAP", "Ocorrências NAP"},
				"analise": {"Saturação NAP", "Ocorrências NAP"},
			},
		},
	}
}
