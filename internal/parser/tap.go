package parser

// newTAPParser builds the pipeline for TAP box-change demands.
func newTAPParser(cities CityTable) RowParser {
	return &rowPipeline{
		cities: cities,
		cfg: pipelineConfig{
			requiredColumns: []string{
				ColIDDemanda, ColCodOperadora, ColEnderecoVistoria,
				ColFila, ColTipoDemanda, ColCodBaixa, ColDataInicio,
			},
			excludedDispositions: map[string]bool{
				"21": true,
			},
			excludedDemandTypes: map[string]bool{
				"VT": true,
				"RX": true,
			},
			queuesByAssignment: map[string][]string{
				"análise": {"Troca de TAP", "Ocorrências TAP"},
				"analise": {"Troca de TAP", "Ocorrências TAP"},
			},
		},
	}
}
