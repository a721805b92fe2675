package search

// adminEntries is the hand-authored list of admin UI surfaces. Kept in rough
// navigation order; ids are stable and referenced by the recents store.
var adminEntries = []Entry{
	{
		ID:       "dashboard",
		Type:     EntryTypePage,
		Path:     "/admin/dashboard",
		Title:    "Dashboard",
		TitleBg:  "Табло",
		Keywords: []string{"home", "overview", "stats", "statistics", "analytics", "начало"},
	},
	{
		ID:          "dashboard-sales",
		Type:        EntryTypeSection,
		Path:        "/admin/dashboard#sales",
		ParentPath:  "/admin/dashboard",
		Title:       "Sales Overview",
		TitleBg:     "Преглед на продажбите",
		Description: "Total sales, orders and customers for the selected period",
		Keywords:    []string{"sales", "revenue", "growth", "продажби", "оборот"},
	},
	{
		ID:          "dashboard-top-variants",
		Type:        EntryTypeSection,
		Path:        "/admin/dashboard#top-variants",
		ParentPath:  "/admin/dashboard",
		Title:       "Top Products",
		TitleBg:     "Топ продукти",
		Description: "Best selling variants by revenue",
		Keywords:    []string{"top", "best sellers", "variants", "revenue", "най-продавани"},
	},
	{
		ID:       "products",
		Type:     EntryTypePage,
		Path:     "/admin/products",
		Title:    "Products",
		TitleBg:  "Продукти",
		Keywords: []string{"catalog", "items", "inventory", "каталог", "артикули"},
	},
	{
		ID:          "product-editor",
		Type:        EntryTypePage,
		Path:        "/admin/products/edit",
		ParentPath:  "/admin/products",
		Title:       "Product Editor",
		TitleBg:     "Редактор на продукти",
		Description: "Create and edit products and their variants",
		Keywords:    []string{"edit", "create", "variant", "редактиране", "създаване"},
	},
	{
		ID:         "product-editor-name",
		Type:       EntryTypeField,
		Path:       "/admin/products/edit#name",
		ParentPath: "/admin/products/edit",
		Title:      "Product Name",
		TitleBg:    "Име на продукт",
		Keywords:   []string{"name", "title", "brand", "model", "име"},
	},
	{
		ID:         "product-editor-sku",
		Type:       EntryTypeField,
		Path:       "/admin/products/edit#sku",
		ParentPath: "/admin/products/edit",
		Title:      "SKU",
		TitleBg:    "Артикулен номер",
		Keywords:   []string{"sku", "stock keeping unit", "barcode", "баркод", "номер"},
	},
	{
		ID:          "product-editor-variants",
		Type:        EntryTypeSection,
		Path:        "/admin/products/edit#variants",
		ParentPath:  "/admin/products/edit",
		Title:       "Variants",
		TitleBg:     "Варианти",
		Description: "Per-variant price, quantity, visibility and property values",
		Keywords:    []string{"variant", "size", "color", "price", "quantity", "варианти", "размер", "цвят"},
	},
	{
		ID:         "product-editor-save",
		Type:       EntryTypeAction,
		Path:       "/admin/products/edit#save",
		ParentPath: "/admin/products/edit",
		Title:      "Save Product",
		TitleBg:    "Запази продукт",
		Keywords:   []string{"save", "submit", "запази"},
	},
	{
		ID:       "properties",
		Type:     EntryTypePage,
		Path:     "/admin/properties",
		Title:    "Properties",
		TitleBg:  "Характеристики",
		Keywords: []string{"attributes", "color", "size", "values", "атрибути", "стойности"},
	},
	{
		ID:          "property-values",
		Type:        EntryTypeSection,
		Path:        "/admin/properties#values",
		ParentPath:  "/admin/properties",
		Title:       "Property Values",
		TitleBg:     "Стойности на характеристики",
		Description: "Allowed values for select properties",
		Keywords:    []string{"values", "options", "select", "опции"},
	},
	{
		ID:       "product-types",
		Type:     EntryTypePage,
		Path:     "/admin/product-types",
		Title:    "Product Types",
		TitleBg:  "Типове продукти",
		Keywords: []string{"categories", "types", "категории", "типове"},
	},
	{
		ID:       "orders",
		Type:     EntryTypePage,
		Path:     "/admin/orders",
		Title:    "Orders",
		TitleBg:  "Поръчки",
		Keywords: []string{"sales", "purchases", "shipping", "поръчки", "доставка"},
	},
	{
		ID:          "order-status",
		Type:        EntryTypeSection,
		Path:        "/admin/orders#status",
		ParentPath:  "/admin/orders",
		Title:       "Order Status",
		TitleBg:     "Статус на поръчка",
		Description: "Change order status and notify the customer by email",
		Keywords:    []string{"status", "pending", "confirmed", "shipped", "delivered", "cancelled", "статус", "изпратена"},
	},
	{
		ID:         "order-status-update",
		Type:       EntryTypeAction,
		Path:       "/admin/orders#update-status",
		ParentPath: "/admin/orders",
		Title:      "Update Order Status",
		TitleBg:    "Промени статус",
		Keywords:   []string{"update", "change", "email", "notify", "промяна"},
	},
	{
		ID:          "images",
		Type:        EntryTypeSection,
		Path:        "/admin/products/edit#images",
		ParentPath:  "/admin/products/edit",
		Title:       "Product Images",
		TitleBg:     "Снимки на продукт",
		Description: "Upload product and variant images",
		Keywords:    []string{"image", "photo", "upload", "primary", "снимка", "качване"},
	},
	{
		ID:         "featured-toggle",
		Type:       EntryTypeField,
		Path:       "/admin/products/edit#featured",
		ParentPath: "/admin/products/edit",
		Title:      "Featured",
		TitleBg:    "Препоръчан",
		Keywords:   []string{"featured", "highlight", "homepage", "препоръчани"},
	},
}
