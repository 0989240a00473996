package dataset

// Default returns the built-in Dream and Lethe relationship table. The map
// is rebuilt on each call so callers can mutate their copy freely.
func Default() *Dataset {
	return &Dataset{
		Name:       "dream-and-lethe",
		Capacities: []int{3, 6, 6},
		Relationships: map[string][]string{
			"Imperial":   {"Jingke", "Hanfei", "Han Wu"},
			"Weiqing":    {"Qubing", "Han Wu"},
			"Yuhuan":     {"Libai", "Longji"},
			"Dufu":       {"Libai"},
			"Qubing":     {"Weiqing", "Han Wu"},
			"Zhen Ji":    {"Zihuan"},
			"Han Wu":     {"Weiqing", "Shimin", "Zifu", "Imperial", "Qubing"},
			"Zihuan":     {"Zhen Ji", "Zijian"},
			"Jikang":     {"Ruanji"},
			"Jingke":     {"Imperial", "Jianli"},
			"Jianli":     {"Jingke", "Longji"},
			"Wan'er":     {"Empress", "Taiping"},
			"Ruanji":     {"Jikang"},
			"Zhangliang": {"Liubang"},
			"Zhaojun":    {"Mulan"},
			"Empress":    {"Wan'er", "Taiping", "Luzhi"},
			"Taiping":    {"Empress", "Wan'er"},
			"Longji":     {"Yuhuan", "Jianli"},
			"Libai":      {"Yuhuan", "Dufu"},
			"Shimin":     {"Han Wu", "Xizhi"},
			"Zijian":     {"Zihuan"},
			"Xiangyu":    {"Consort Yu"},
			"Consort Yu": {"Xiangyu"},
			"Zifu":       {"Han Wu"},
			"Xizhi":      {"Shimin"},
			"Luzhi":      {"Empress", "Liubang"},
			"Liubang":    {"Zhangliang", "Luzhi"},
			"Hanfei":     {"Imperial"},
			"Mulan":      {"Zhaojun"},
		},
	}
}
