// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package symbol

// Classic 經典五符號組。
func Classic() []Symbol {
	return []Symbol{
		New("🍒", "Cherry", 2, 0, 50),
		New("🍋", "Lemon", 3, 0, 30),
		New("🔔", "Bell", 5, 0, 15),
		New("⭐", "Star", 10, 0, 4),
		New("7️⃣", "Seven", 20, 0, 1),
	}
}
