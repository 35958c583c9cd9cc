package taxonomy

// DefaultCategories returns the built-in inspection categories used when no
// taxonomy file is configured.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:        "商品陳列",
			Description: "売場の陳列状態、棚割り、フェイシング",
			Keywords:    []string{"陳列", "棚", "フェイス", "配置", "並べ", "見やすい", "見にくい"},
		},
		{
			Name:        "価格情報",
			Description: "売価、値札、割引など価格に関する情報",
			Keywords:    []string{"価格", "値段", "安い", "高い", "円", "割引", "値引き", "セール"},
		},
		{
			Name:        "在庫状況",
			Description: "欠品、補充、入荷などの在庫状況",
			Keywords:    []string{"在庫", "欠品", "品切れ", "売り切れ", "補充", "入荷"},
		},
		{
			Name:        "店舗環境",
			Description: "清潔さ、照明、通路など店舗の環境",
			Keywords:    []string{"清潔", "掃除", "汚れ", "照明", "通路", "温度", "匂い"},
		},
		{
			Name:        "顧客動向",
			Description: "来店客の様子、レジ待ち、購買行動",
			Keywords:    []string{"来店", "お客", "客層", "レジ", "行列", "混雑", "購入"},
		},
		{
			Name:        "競合情報",
			Description: "競合店や他社商品の動き",
			Keywords:    []string{"競合", "他社", "他店", "ライバル", "比較"},
		},
		{
			Name:        "販促活動",
			Description: "キャンペーン、POP、チラシ、試食などの販促",
			Keywords:    []string{"キャンペーン", "POP", "チラシ", "ポイント", "試食", "特売"},
		},
		{
			Name:        "接客対応",
			Description: "スタッフの接客、挨拶、説明",
			Keywords:    []string{"店員", "スタッフ", "接客", "挨拶", "対応", "説明"},
		},
	}
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return MustNew(DefaultCategories())
}
