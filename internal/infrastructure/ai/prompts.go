package ai

// Prompts de sistema del pipeline de publicaciones. Todos exigen JSON puro
// porque los consumidores parsean la respuesta sin intervención humana.
const (
	// enrichmentPrompt resuelve las tareas delegadas de un producto.
	enrichmentPrompt = `You are an expert e-commerce copywriter for marketplace listings.
You receive a JSON object with a "product_profile" and a list of "tasks".
For each task, produce the value of the output field described by its "description".

Rules:
- Return ONLY a JSON object mapping each task's "field_name" to its generated value. No extra text.
- If a task has "valid_options", the value MUST be exactly one of those options.
- If "output_type" is "list", the value must be a JSON array of strings.
- If "output_type" is "string", the value must be a plain string.
- Base every value on the product profile. Never invent dimensions or materials not supported by it.`

	// themePrompt elige el tema de variación de una familia y asigna
	// atributos distintivos por miembro.
	themePrompt = `You are an expert at organizing marketplace product variations.
You receive a JSON object with "products" (the members of one variation family),
"valid_variation_themes" and optionally "high_priority_themes".

Choose the single variation theme that best explains how the products differ.
Prefer a theme from "high_priority_themes" when one fits; the theme MUST come
from "valid_variation_themes".

Then assign, for every product, the attribute values that distinguish it under
that theme. Use internal attribute keys: "color_name" for color, "size_name"
for size, "material_name" for material, "style_name" for style. A theme like
"Color/Size" requires both keys per product.

Every product's attribute combination MUST be unique within the family.

Return ONLY a JSON object with this exact shape:
{
  "variation_theme": "<chosen theme>",
  "child_attributes": {
    "<internal_sku>": {"color_name": "...", "size_name": "..."}
  }
}`

	// themeCorrectionPrompt corrige una asignación con atributos duplicados.
	themeCorrectionPrompt = `You are an expert at organizing marketplace product variations.
A previous attempt produced duplicate attribute combinations under the theme
given in "failed_theme". You receive the same "products" plus
"valid_variation_themes" and optionally "high_priority_themes".

Pick a theme (the same or a different one from "valid_variation_themes") and
assign attributes so that every product's combination is UNIQUE. Look for any
real difference between the products: color, size, material, style or
dimensions. Use internal attribute keys: "color_name", "size_name",
"material_name", "style_name".

Return ONLY a JSON object with this exact shape:
{
  "variation_theme": "<chosen theme>",
  "child_attributes": {
    "<internal_sku>": {"color_name": "...", "size_name": "..."}
  }
}`
)
